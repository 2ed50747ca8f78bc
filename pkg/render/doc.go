// Package render turns Graphviz DOT source into diagram artifacts.
//
// The layout algorithm is opaque: [Graphviz] hands the DOT text to the
// embedded go-graphviz runtime, which performs layout and edge routing and
// emits PNG, JPG or SVG. PDF is produced by converting the SVG with the
// external rsvg-convert tool, as in:
//
//	png, err := render.NewGraphviz().Render(ctx, dot, render.FormatPNG)
//	pdf, err := render.ToPDF(ctx, svg)
//
// Engines compose. [Cached] wraps any [Engine] with a [cache.Cache] so a
// repeated render of identical DOT skips Graphviz entirely:
//
//	engine := render.Cached(render.NewGraphviz(), fileCache, 0)
//
// [cache.Cache]: github.com/matzehuels/archdiagram/pkg/cache
package render
