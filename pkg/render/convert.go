package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const rsvgBinary = "rsvg-convert"

// ErrRSVGMissing is returned when a PDF or scaled PNG is requested and
// rsvg-convert (shipped with librsvg) is not on PATH.
var ErrRSVGMissing = errors.New("rsvg-convert not found on PATH (install librsvg)")

// ToPDF re-encodes the Graphviz SVG as a vector PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, FormatPDF)
}

// ToPNG renders the Graphviz SVG to a PNG zoomed by scale, for diagrams
// that must stay sharp on high-DPI screens.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, FormatPNG, "--zoom", fmt.Sprintf("%.2f", scale))
}

// HasRSVG reports whether PDF and scaled PNG output are available.
func HasRSVG() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format Format, opts ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, fmt.Errorf("%s output: %w", format, ErrRSVGMissing)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", string(format)}, opts...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("convert diagram to %s: %w", format, err)
		}
		return nil, fmt.Errorf("convert diagram to %s: %w: %s", format, err, msg)
	}
	return stdout.Bytes(), nil
}
