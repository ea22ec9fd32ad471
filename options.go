package postfx

import "log/slog"

// HostState reports whether the host renderer is in a state where frames
// should be post-processed (for example, in-game with no loading screen).
type HostState interface {
	Interactive() bool
}

// HostStateFunc adapts a function to HostState.
type HostStateFunc func() bool

// Interactive implements HostState.
func (f HostStateFunc) Interactive() bool { return f() }

// alwaysInteractive is the default host state.
type alwaysInteractive struct{}

func (alwaysInteractive) Interactive() bool { return true }

// Option configures a Dispatcher during creation.
//
// Example:
//
//	d := postfx.New(shared,
//	    postfx.WithHostState(postfx.HostStateFunc(game.InWorld)),
//	    postfx.WithLogger(logger))
type Option func(*options)

type options struct {
	host    HostState
	factory Factory
	cpuOnly bool
	workers int
	logger  *slog.Logger
}

func defaultOptions() options {
	return options{
		host: alwaysInteractive{},
	}
}

// WithHostState sets the host gate. Frames are skipped while the host is
// not interactive. By default the host is always interactive.
func WithHostState(h HostState) Option {
	return func(o *options) {
		if h != nil {
			o.host = h
		}
	}
}

// WithComputeFactory overrides the registered compute backend factory.
func WithComputeFactory(f Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithCPUOnly disables the compute backend.
func WithCPUOnly() Option {
	return func(o *options) {
		o.cpuOnly = true
	}
}

// WithCPUWorkers sets how many goroutines the CPU filters split a frame
// across. 0 (the default) uses GOMAXPROCS; 1 processes frames on the
// calling goroutine.
func WithCPUWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 0)
	}
}

// WithLogger sets a dispatcher-specific logger. By default the package
// logger (see SetLogger) is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
