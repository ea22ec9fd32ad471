package postfx

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with frame processing.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for postfx and its backends.
// By default postfx produces no log output. Pass nil to restore silence.
//
// Log levels used by postfx:
//   - [slog.LevelDebug]: per-frame details (skips, pass counts, buffer sizes)
//   - [slog.LevelInfo]: backend selection, GPU adapter selected
//   - [slog.LevelWarn]: CPU fallback, dropped frames, release errors
//
// Example:
//
//	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	liveMu.Lock()
	defer liveMu.Unlock()
	for b := range live {
		propagateLogger(b, l)
	}
}

// Logger returns the current package logger. The gpu sub-package calls it
// to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(b Backend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// live tracks compute backends created by dispatchers so that SetLogger
// reaches backends created before it was called.
var (
	liveMu sync.Mutex
	live   = make(map[Backend]struct{})
)

func trackBackend(b Backend) {
	liveMu.Lock()
	live[b] = struct{}{}
	liveMu.Unlock()
}

func untrackBackend(b Backend) {
	liveMu.Lock()
	delete(live, b)
	liveMu.Unlock()
}
