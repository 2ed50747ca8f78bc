package blueprint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

func TestLoadAllSyntaxes(t *testing.T) {
	var want string
	for _, name := range []string{"web.toml", "web.yaml", "web.hcl", "web.json"} {
		t.Run(name, func(t *testing.T) {
			b, err := Load(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if b.Title != "Web Service" || b.Direction != "LR" {
				t.Errorf("Title = %q, Direction = %q", b.Title, b.Direction)
			}

			d, err := b.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if d.NodeCount() != 4 || d.EdgeCount() != 4 || len(d.Clusters()) != 2 {
				t.Errorf("got %d nodes, %d edges, %d clusters", d.NodeCount(), d.EdgeCount(), len(d.Clusters()))
			}
			if got := d.Formats(); len(got) != 2 || got[0] != render.FormatSVG {
				t.Errorf("Formats() = %v", got)
			}
			if d.Direction() != diagram.LeftToRight {
				t.Errorf("Direction() = %q", d.Direction())
			}

			redis, ok := d.Lookup("redis")
			if !ok || redis.Cluster().Name() != "Cache Tier" || redis.Cluster().Parent().Name() != "VPC" {
				t.Errorf("redis placed in %v", redis.Cluster())
			}

			last := d.Edges()[3]
			if last.Directed() || last.Style() != diagram.StyleDashed || last.Label() != "replica" {
				t.Errorf("last edge = %+v", last)
			}

			dot := d.DOT()
			if want == "" {
				want = dot
			} else if dot != want {
				t.Errorf("DOT differs from web.toml:\n%s", dot)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		code apperrors.Code
	}{
		{"missing file", filepath.Join(dir, "missing.toml"), apperrors.ErrCodeFileNotFound},
		{"bad extension", write("arch.py", "print()"), apperrors.ErrCodeInvalidBlueprint},
		{"bad toml", write("bad.toml", "title = "), apperrors.ErrCodeInvalidBlueprint},
		{"unknown toml key", write("extra.toml", "title = \"x\"\nicon = \"eks.png\"\n"), apperrors.ErrCodeInvalidBlueprint},
		{"unknown yaml key", write("extra.yaml", "title: x\nicon: eks.png\n"), apperrors.ErrCodeInvalidBlueprint},
		{"unknown json key", write("extra.json", `{"title": "x", "icon": "eks.png"}`), apperrors.ErrCodeInvalidBlueprint},
		{"trailing json object", write("two.json", `{"title": "x"} {"nodes": []}`), apperrors.ErrCodeInvalidBlueprint},
		{"trailing json garbage", write("garbage.json", "{\"title\": \"x\"}\n]"), apperrors.ErrCodeInvalidBlueprint},
		{"bad hcl", write("bad.hcl", "node {"), apperrors.ErrCodeInvalidBlueprint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("Load() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestApplyUnknownNode(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "unknown_node.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = b.Build()
	var unknown *diagram.UnknownNodeError
	if !errors.As(err, &unknown) {
		t.Fatalf("Build error = %v, want *diagram.UnknownNodeError", err)
	}
	if unknown.ID != "ghost" {
		t.Errorf("ID = %q, want ghost", unknown.ID)
	}
}

func TestApplyValidation(t *testing.T) {
	tests := []struct {
		name string
		b    Blueprint
		want string
	}{
		{
			name: "duplicate id",
			b:    Blueprint{Nodes: []Node{{ID: "a"}, {ID: "a"}}},
			want: "duplicate node ID",
		},
		{
			name: "empty id",
			b:    Blueprint{Nodes: []Node{{Label: "Nameless"}}},
			want: "name cannot be empty",
		},
		{
			name: "empty edge",
			b:    Blueprint{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{From: []string{"a"}}}},
			want: "at least one source and one destination",
		},
		{
			name: "bad style",
			b: Blueprint{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Edges: []Edge{{From: []string{"a"}, To: []string{"b"}, Style: "wavy"}},
			},
			want: "invalid edge style",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Apply(diagram.New("t"))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Apply() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestOptionsErrors(t *testing.T) {
	if _, err := (&Blueprint{Direction: "diagonal"}).Options(); !apperrors.Is(err, apperrors.ErrCodeInvalidDirection) {
		t.Errorf("bad direction = %v", err)
	}
	if _, err := (&Blueprint{Formats: []string{"gif"}}).Options(); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("bad format = %v", err)
	}
}

func TestLabelDefaultsToID(t *testing.T) {
	d, err := (&Blueprint{Nodes: []Node{{ID: "api"}}}).Build()
	if err != nil {
		t.Fatal(err)
	}
	n, _ := d.Lookup("api")
	if n.Label() != "api" || n.Category() != diagram.Generic {
		t.Errorf("node = %q / %q", n.Label(), n.Category())
	}
}

func TestExampleBlueprints(t *testing.T) {
	tests := []struct {
		file                   string
		nodes, clusters, edges int
		filename               string
	}{
		{"serverless.hcl", 8, 3, 9, "serverless-orders"},
		{"ci-pipeline.toml", 6, 2, 5, "ci_cd_pipeline"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			b, err := Load(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			d, err := b.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if d.NodeCount() != tt.nodes || len(d.Clusters()) != tt.clusters || d.EdgeCount() != tt.edges {
				t.Errorf("got %d nodes, %d clusters, %d edges; want %d, %d, %d",
					d.NodeCount(), len(d.Clusters()), d.EdgeCount(), tt.nodes, tt.clusters, tt.edges)
			}
			if d.Filename() != tt.filename {
				t.Errorf("Filename() = %q, want %q", d.Filename(), tt.filename)
			}
			if err := d.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}
