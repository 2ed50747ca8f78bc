package diagram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// Render finalizes the diagram and writes one artifact per format to
// path plus the format's extension. An empty path uses the diagram's
// filename; with no formats the diagram's default formats are used.
//
// Render may be called once. The first call finalizes the diagram whether
// it succeeds or not; later calls, and every mutating call, return
// [ErrFinalized].
//
// All artifacts are produced before any file is written, and each file is
// written to a temporary name and renamed into place, so a failed render
// leaves no output behind. Engine failures are returned as
// [*RenderBackendError], write failures as [*OutputWriteError].
func (d *Diagram) Render(ctx context.Context, path string, formats ...render.Format) ([]string, error) {
	if d.finalized {
		return nil, ErrFinalized
	}
	d.finalized = true

	if path == "" {
		path = d.filename
	}
	if len(formats) == 0 {
		formats = d.formats
	}
	names := formatNames(formats)

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, d.title, names, len(d.nodes), len(d.edges))
	start := time.Now()
	paths, err := d.render(ctx, path, formats)
	hooks.OnRenderComplete(ctx, d.title, names, time.Since(start), err)
	return paths, err
}

func (d *Diagram) render(ctx context.Context, path string, formats []render.Format) ([]string, error) {
	formats = dedupe(formats)
	for _, f := range formats {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	dot := []byte(d.DOT())
	artifacts := make([][]byte, len(formats))
	for i, f := range formats {
		data, err := d.encode(ctx, dot, f)
		if err != nil {
			return nil, err
		}
		artifacts[i] = data
	}

	written := make([]string, 0, len(formats))
	for i, f := range formats {
		out := OutputPath(path, f)
		if err := writeFile(out, artifacts[i]); err != nil {
			for _, p := range written {
				os.Remove(p)
			}
			return nil, &OutputWriteError{Path: out, Err: err}
		}
		written = append(written, out)
		observability.Render().OnArtifact(ctx, string(f), out, len(artifacts[i]))
	}
	return written, nil
}

func (d *Diagram) encode(ctx context.Context, dot []byte, f render.Format) ([]byte, error) {
	if f == render.FormatJSON {
		return d.marshalJSON()
	}
	data, err := d.engine.Render(ctx, dot, f)
	if err != nil {
		return nil, &RenderBackendError{Format: f, Err: err}
	}
	return data, nil
}

// OutputPath returns the file written for format f when rendering to
// path. A known format extension already on path is replaced, so
// "out.svg" and "out" both yield "out.png" for PNG.
func OutputPath(path string, f render.Format) string {
	ext := filepath.Ext(path)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		path = strings.TrimSuffix(path, ext)
	}
	return path + f.Ext()
}

// writeFile writes data to a temporary file next to path and renames it
// into place.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// Draw creates a diagram, runs build on it and renders it once to the
// diagram's filename and formats. If build fails nothing is rendered and
// no file is produced.
func Draw(ctx context.Context, title string, build func(*Diagram) error, opts ...Option) ([]string, error) {
	d := New(title, opts...)
	if err := build(d); err != nil {
		return nil, err
	}
	return d.Render(ctx, "")
}

func formatNames(formats []render.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

func dedupe(formats []render.Format) []render.Format {
	seen := make(map[render.Format]bool, len(formats))
	out := make([]render.Format, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
