package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(os.Stderr, LogInfo)
	c.settings().Output.Dir = t.TempDir()
	c.settings().Cache.Backend = "none"
	return c
}

func TestNewDiagramDefaults(t *testing.T) {
	c := newTestCLI(t)

	d, cleanup, err := c.newDiagram(context.Background(), "Defaults", nil, &renderOpts{})
	if err != nil {
		t.Fatalf("newDiagram: %v", err)
	}
	defer cleanup()

	if got := d.Formats(); !slices.Equal(got, []render.Format{render.FormatPNG}) {
		t.Errorf("Formats() = %v, want [png]", got)
	}
	if d.Direction() != diagram.TopToBottom {
		t.Errorf("Direction() = %s, want TB", d.Direction())
	}
}

func TestNewDiagramPrecedence(t *testing.T) {
	c := newTestCLI(t)
	c.settings().Output.Formats = []string{"svg"}
	c.settings().Output.Direction = "BT"
	c.settings().Output.Layout = "fdp"

	base := []diagram.Option{diagram.WithDirection(diagram.RightToLeft)}

	tests := []struct {
		name        string
		opts        renderOpts
		wantFormats []render.Format
		wantDir     diagram.Direction
		wantLayout  string
	}{
		{
			name:        "config and base",
			wantFormats: []render.Format{render.FormatSVG},
			wantDir:     diagram.RightToLeft,
			wantLayout:  "fdp",
		},
		{
			name:        "flags win",
			opts:        renderOpts{formats: "dot,json", direction: "lr", layout: "neato"},
			wantFormats: []render.Format{render.FormatDOT, render.FormatJSON},
			wantDir:     diagram.LeftToRight,
			wantLayout:  "neato",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, cleanup, err := c.newDiagram(context.Background(), "Precedence", base, &tt.opts)
			if err != nil {
				t.Fatalf("newDiagram: %v", err)
			}
			defer cleanup()

			if got := d.Formats(); !slices.Equal(got, tt.wantFormats) {
				t.Errorf("Formats() = %v, want %v", got, tt.wantFormats)
			}
			if d.Direction() != tt.wantDir {
				t.Errorf("Direction() = %s, want %s", d.Direction(), tt.wantDir)
			}
			if got := d.GraphAttrs()["layout"]; got != tt.wantLayout {
				t.Errorf("layout = %q, want %q", got, tt.wantLayout)
			}
		})
	}
}

func TestNewDiagramInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		opts renderOpts
		code apperrors.Code
	}{
		{"bad format", renderOpts{formats: "png,gif"}, apperrors.ErrCodeInvalidFormat},
		{"bad direction", renderOpts{direction: "diagonal"}, apperrors.ErrCodeInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			_, _, err := c.newDiagram(context.Background(), "Invalid", nil, &tt.opts)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("newDiagram() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		code apperrors.Code
	}{
		{"backend", &diagram.RenderBackendError{Format: render.FormatSVG, Err: cause}, apperrors.ErrCodeRenderFailed},
		{"write", &diagram.OutputWriteError{Path: "/ro/x.png", Err: cause}, apperrors.ErrCodeInvalidPath},
		{"unknown node", &diagram.UnknownNodeError{ID: "ghost"}, apperrors.ErrCodeInvalidInput},
		{"unsupported format", render.ErrUnsupportedFormat, apperrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderError(tt.err); !apperrors.Is(got, tt.code) {
				t.Errorf("renderError() = %v, want code %s", got, tt.code)
			}
		})
	}

	if got := renderError(diagram.ErrFinalized); !errors.Is(got, diagram.ErrFinalized) {
		t.Errorf("renderError() should pass other errors through, got %v", got)
	}
}

const testBlueprint = `title: Queue Worker
nodes:
  - id: api
    label: API
    category: aws.compute.lambda
  - id: queue
    label: Queue
    category: aws.integration.sns
clusters:
  - name: Workers
    nodes:
      - id: worker
        label: Worker
        category: aws.compute.ec2
edges:
  - from: [api]
    to: [queue]
  - from: [queue]
    to: [worker]
    style: dashed
`

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "queue.yaml")
	if err := os.WriteFile(input, []byte(testBlueprint), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t)
	out := filepath.Join(dir, "build", "queue")
	opts := &renderOpts{output: out, formats: "dot,json", noCache: true}
	if err := c.runRender(context.Background(), input, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	dot, err := os.ReadFile(out + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	for _, want := range []string{`"api" -> "queue"`, `"queue" -> "worker"`, `label="Workers"`} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("DOT missing %s", want)
		}
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("json artifact: %v", err)
	}
}

func TestRunRenderDefaultName(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "queue.yaml")
	if err := os.WriteFile(input, []byte(testBlueprint), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t)
	if err := c.runRender(context.Background(), input, &renderOpts{formats: "dot"}); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	want := filepath.Join(c.settings().Output.Dir, "queue.dot")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s: %v", want, err)
	}
}

func TestRunRenderUnknownNode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.yaml")
	bp := strings.Replace(testBlueprint, "to: [worker]", "to: [ghost]", 1)
	if err := os.WriteFile(input, []byte(bp), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t)
	err := c.runRender(context.Background(), input, &renderOpts{formats: "dot"})

	var unknown *diagram.UnknownNodeError
	if !errors.As(err, &unknown) || unknown.ID != "ghost" {
		t.Fatalf("runRender() error = %v, want UnknownNodeError for ghost", err)
	}
	if !apperrors.Is(err, apperrors.ErrCodeInvalidBlueprint) {
		t.Errorf("runRender() code = %s, want %s", apperrors.GetCode(err), apperrors.ErrCodeInvalidBlueprint)
	}
}

func TestRunDraw(t *testing.T) {
	c := newTestCLI(t)
	if err := c.runDraw(context.Background(), &renderOpts{formats: "dot"}); err != nil {
		t.Fatalf("runDraw: %v", err)
	}

	path := filepath.Join(c.settings().Output.Dir, "aws-cloudsec-architecture.dot")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("unexpected DOT header: %.40s", data)
	}
}
