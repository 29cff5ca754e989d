package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
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

// done logs msg along with the elapsed time, e.g. "Rendered 3 diagrams (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
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

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports pipeline, cache and HTTP events through the CLI logger.
// Render and cache events are debug-level, so they show with --verbose.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnBuild(_ context.Context, name string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "diagram", name, "err", err)
		return
	}
	h.logger.Debug("built diagram", "diagram", name, "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnRenderStart(_ context.Context, name, format string) {
	h.logger.Debug("rendering", "diagram", name, "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, name, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "diagram", name, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "diagram", name, "format", format, "bytes", size, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, format string) {
	h.logger.Debug("cache hit", "format", format)
}

func (h *logHooks) OnCacheMiss(_ context.Context, format string) {
	h.logger.Debug("cache miss", "format", format)
}

func (h *logHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.logger.Debug("cached", "format", format, "bytes", size)
}

func (h *logHooks) OnCacheError(_ context.Context, op string, err error) {
	h.logger.Debug("cache error", "op", op, "err", err)
}

func (h *logHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "took", d.Round(time.Millisecond))
}
