package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned when a format is not one of the known
// output formats, or when an engine cannot produce the requested format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is an output artifact format.
type Format string

const (
	FormatPNG  Format = "png"  // bitmap, the default
	FormatJPG  Format = "jpg"  // bitmap
	FormatSVG  Format = "svg"  // vector
	FormatPDF  Format = "pdf"  // vector, converted from SVG with rsvg-convert
	FormatDOT  Format = "dot"  // Graphviz source, no layout performed
	FormatJSON Format = "json" // structure export, never handled by an engine
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatPNG

var knownFormats = []Format{FormatPNG, FormatJPG, FormatSVG, FormatPDF, FormatDOT, FormatJSON}

// Formats returns every known format in display order.
func Formats() []Format {
	return append([]Format(nil), knownFormats...)
}

// ParseFormat parses a format name. Matching is case-insensitive and
// accepts "jpeg" as an alias for jpg.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "jpeg" {
		name = string(FormatJPG)
	}
	for _, f := range knownFormats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ParseFormats parses a comma-separated list of formats.
// An empty string yields [DefaultFormat]. Duplicates are dropped.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return []Format{DefaultFormat}, nil
	}
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, err := ParseFormat(string(f))
	return err == nil
}

// Ext returns the file extension for f, including the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// Bitmap reports whether f is a raster image format.
func (f Format) Bitmap() bool { return f == FormatPNG || f == FormatJPG }
