// Package cli implements the mindmap command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - edit: Interactive terminal editor
//   - serve: HTTP API for a browser front end
//   - replay: Apply a scripted list of actions and export the result
//   - export: Render a saved snapshot to PNG, SVG, DOT or Graphviz SVG
//   - config: Show or initialise the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; editor and export events are routed to
// the same logger through observability hooks.
package cli

import (
	"context"
	"io"
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
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Replayed 12 actions (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks writes editor and export events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnMutation(_ context.Context, op string, err error) {
	if err != nil {
		h.logger.Debug("action rejected", "op", op, "err", err)
		return
	}
	h.logger.Debug("action applied", "op", op)
}

func (h *logHooks) OnHistory(_ context.Context, op string, applied bool) {
	h.logger.Debug("history", "op", op, "applied", applied)
}

func (h *logHooks) OnExport(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("export failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("exported", "format", format, "bytes", size, "duration", d.Round(time.Microsecond))
}
