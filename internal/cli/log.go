// Package cli implements the archdiagram command-line interface.
//
// This package provides commands for drawing the built-in CloudSec
// architecture, rendering declarative blueprints, inspecting a diagram's
// structure, and managing the rendered artifact cache. The CLI is built
// using cobra and logs with the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - draw: Render the built-in AWS CloudSec Microservices Platform diagram
//   - render: Render a TOML, YAML, HCL or JSON blueprint
//   - inspect: Print the cluster tree and edges, or browse them interactively
//   - cache: Manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and library events reach the logger via
// observability hooks.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Rendered 34 nodes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports render and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnRenderStart(_ context.Context, title string, formats []string, nodeCount, edgeCount int) {
	h.logger.Debug("render start", "title", title, "formats", strings.Join(formats, ","), "nodes", nodeCount, "edges", edgeCount)
}

func (h *logHooks) OnArtifact(_ context.Context, format, path string, size int) {
	h.logger.Debug("artifact written", "format", format, "path", path, "bytes", size)
}

func (h *logHooks) OnRenderComplete(_ context.Context, title string, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "title", title, "err", err)
		return
	}
	h.logger.Debug("render complete", "title", title, "formats", strings.Join(formats, ","), "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
