package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// Engine turns Graphviz DOT source into an artifact of the requested format.
type Engine interface {
	Render(ctx context.Context, dot []byte, format Format) ([]byte, error)
}

// EngineFunc adapts a function to the [Engine] interface.
type EngineFunc func(ctx context.Context, dot []byte, format Format) ([]byte, error)

// Render calls f.
func (f EngineFunc) Render(ctx context.Context, dot []byte, format Format) ([]byte, error) {
	return f(ctx, dot, format)
}

// Graphviz renders DOT using the embedded go-graphviz runtime.
//
// A Graphviz handle is opened for each call and closed before returning,
// so a Graphviz value holds no resources and may be reused.
type Graphviz struct {
	// Scale, when greater than 1, renders PNG by rasterizing the SVG output
	// with rsvg-convert at that scale instead of using the Graphviz
	// bitmap renderer. Use 2 for high-DPI displays.
	Scale float64
}

// NewGraphviz returns the default engine.
func NewGraphviz() *Graphviz { return &Graphviz{} }

// Render implements [Engine].
//
// PNG, JPG and SVG are produced by Graphviz directly. PDF is produced by
// converting the SVG output with rsvg-convert. DOT is returned unchanged.
// JSON is not an engine format and yields [ErrUnsupportedFormat].
func (g *Graphviz) Render(ctx context.Context, dot []byte, format Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case FormatDOT:
		return bytes.Clone(dot), nil
	case FormatSVG:
		svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return normalizeViewBox(svg), nil
	case FormatPNG:
		if g.Scale > 1 {
			svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
			if err != nil {
				return nil, err
			}
			return ToPNG(ctx, normalizeViewBox(svg), g.Scale)
		}
		return renderGraphviz(ctx, dot, graphviz.PNG)
	case FormatJPG:
		return renderGraphviz(ctx, dot, graphviz.JPG)
	case FormatPDF:
		svg, err := renderGraphviz(ctx, dot, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, normalizeViewBox(svg))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func renderGraphviz(ctx context.Context, dot []byte, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the viewBox starts at the
// origin and width/height match it, which keeps browsers from clipping.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

var _ Engine = (*Graphviz)(nil)
