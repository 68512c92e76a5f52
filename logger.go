package glyphfield

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphfield/backend"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// attached tracks backends in use by live sessions, with a reference
// count, so SetLogger can reach them.
var (
	attachedMu sync.Mutex
	attached   = make(map[backend.Backend]int)
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for glyphfield and the backends of all
// live sessions. By default, glyphfield produces no log output.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by glyphfield:
//   - [slog.LevelDebug]: handle lifecycle, buffer sizes
//   - [slog.LevelInfo]: font loaded
//   - [slog.LevelWarn]: release anomalies
//
// Example:
//
//	glyphfield.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	attachedMu.Lock()
	defer attachedMu.Unlock()
	for b := range attached {
		propagateLogger(b, l)
	}
}

// Logger returns the current logger used by glyphfield.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a backend if it implements
// the loggerSetter interface.
func propagateLogger(b backend.Backend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// attach registers b as in use and hands it the current logger.
func attach(b backend.Backend) {
	attachedMu.Lock()
	defer attachedMu.Unlock()
	attached[b]++
	propagateLogger(b, Logger())
}

// detach drops one reference to b.
func detach(b backend.Backend) {
	attachedMu.Lock()
	defer attachedMu.Unlock()
	if attached[b] <= 1 {
		delete(attached, b)
		return
	}
	attached[b]--
}
