package postfx

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/gogpu/postfx/effect"
	"github.com/gogpu/postfx/internal/filter"
	"github.com/gogpu/postfx/internal/parallel"
)

// probeStride and probeLimit bound the empty-frame probe: samples at
// indices 0, 10, ..., 990 are inspected, at most 100 of them.
const (
	probeStride = 10
	probeLimit  = 1000
)

// Dispatcher gates frames and routes them to the compute backend or the
// CPU filters.
//
// Process is meant to be called from a single frame loop. Stats and Close
// may be called from any goroutine.
type Dispatcher struct {
	cfg  *effect.Shared
	opts options

	mu       sync.Mutex
	closed   bool
	cpu      *filter.Backend
	pool     *parallel.WorkerPool // started with the first CPU frame
	compute  Backend
	tried    bool // compute creation attempted
	disabled bool // compute unusable for the rest of the process

	history *effect.Frame // input of the previous processed frame
	spare   *effect.Frame // recycled history buffer
	hasPrev bool

	stats counters
}

// New returns a dispatcher reading its configuration from cfg.
// A nil cfg uses effect.Default.
func New(cfg *effect.Shared, opts ...Option) *Dispatcher {
	if cfg == nil {
		cfg = effect.NewShared(effect.Default())
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil && !o.cpuOnly {
		o.factory = ComputeFactory()
	}
	if o.workers == 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return &Dispatcher{
		cfg:  cfg,
		opts: o,
	}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.opts.logger != nil {
		return d.opts.logger
	}
	return Logger()
}

// Config returns the configuration snapshot the next frame would use.
func (d *Dispatcher) Config() effect.Config { return d.cfg.Load() }

// ProcessPixels processes a caller-owned pixel slice in place.
// It returns ErrDimensionMismatch when len(pix) != w*h.
func (d *Dispatcher) ProcessPixels(pix []uint32, w, h int) error {
	f, err := effect.FrameOf(pix, w, h)
	if err != nil {
		return err
	}
	return d.Process(f)
}

// Process applies the configured effects to f in place.
//
// The only error is ErrDimensionMismatch. Every runtime failure leaves f
// unchanged and is logged.
func (d *Dispatcher) Process(f *effect.Frame) error {
	if err := f.Valid(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.skip(SkipClosed)
		return nil
	}
	d.stats.frames.Add(1)

	cfg := d.cfg.Load()
	if reason, skip := d.gate(f, &cfg); skip {
		d.skip(reason)
		return nil
	}

	if !cfg.NeedsHistory() || !f.SameSize(d.history) {
		d.dropHistory()
	}
	var prev *effect.Frame
	if d.hasPrev {
		prev = d.history
	}

	// Keep the unprocessed input for the next frame's temporal blend.
	var input *effect.Frame
	if cfg.NeedsHistory() {
		input = d.spare
		if input == nil {
			input = &effect.Frame{}
		}
		input.CopyFrom(f)
	}

	name, reason, ok := d.run(f, prev, &cfg)
	if !ok {
		d.skip(reason)
		return nil
	}

	d.stats.processed.Add(1)
	d.stats.backend.Store(&name)
	if input != nil {
		d.spare = d.history
		d.history = input
		d.hasPrev = true
	}
	return nil
}

// gate reports whether the frame must be passed through unchanged.
func (d *Dispatcher) gate(f *effect.Frame, cfg *effect.Config) (SkipReason, bool) {
	switch {
	case !cfg.Enabled:
		return SkipDisabled, true
	case !d.opts.host.Interactive():
		return SkipHostState, true
	case emptyFrame(f.Pix):
		return SkipEmptyFrame, true
	case !cfg.Active():
		return SkipNoEffect, true
	}
	return 0, false
}

// emptyFrame probes every tenth sample of the first thousand.
func emptyFrame(pix []uint32) bool {
	n := min(len(pix), probeLimit)
	for i := 0; i < n; i += probeStride {
		if !effect.IsEmpty(pix[i]) {
			return false
		}
	}
	return true
}

// run processes f on the compute backend when available, else on the CPU.
func (d *Dispatcher) run(f, prev *effect.Frame, cfg *effect.Config) (string, SkipReason, bool) {
	log := d.logger()

	if b := d.computeBackend(); b != nil {
		err := b.Process(f, prev, cfg)
		switch {
		case err == nil:
			d.stats.gpu.Add(1)
			return b.Name(), 0, true
		case errors.Is(err, ErrWrongThread):
			log.Warn("postfx: frame skipped, compute backend used off its thread", "err", err)
			return "", SkipWrongThread, false
		case errors.Is(err, ErrFallbackToCPU):
			d.stats.fallbacks.Add(1)
			log.Debug("postfx: compute backend declined frame", "err", err)
		case errors.Is(err, ErrClosed):
			log.Warn("postfx: compute backend closed, using CPU", "backend", b.Name())
			d.releaseCompute()
			d.disabled = true
		default:
			log.Warn("postfx: compute backend failed, frame unchanged", "backend", b.Name(), "err", err)
			return "", SkipFailed, false
		}
	}

	cpu := d.cpuBackend()
	if err := cpu.Process(f, prev, cfg); err != nil {
		log.Warn("postfx: CPU processing failed, frame unchanged", "err", err)
		return "", SkipFailed, false
	}
	d.stats.cpu.Add(1)
	return cpu.Name(), 0, true
}

// cpuBackend returns the CPU filters, starting the band pool on first use.
func (d *Dispatcher) cpuBackend() *filter.Backend {
	if d.cpu != nil {
		return d.cpu
	}
	if d.opts.workers > 1 {
		d.pool = parallel.NewWorkerPool(d.opts.workers)
		d.cpu = filter.NewParallelBackend(d.pool)
	} else {
		d.cpu = filter.NewBackend()
	}
	return d.cpu
}

// computeBackend returns the compute backend, creating it on first use.
// Creation failure disables compute processing for the dispatcher's life.
func (d *Dispatcher) computeBackend() Backend {
	if d.compute != nil || d.disabled || d.opts.cpuOnly {
		return d.compute
	}
	if d.tried || d.opts.factory == nil {
		return nil
	}
	d.tried = true

	b, err := d.opts.factory()
	if err != nil || b == nil {
		d.disabled = true
		d.logger().Warn("postfx: compute backend unavailable, using CPU", "err", err)
		return nil
	}
	propagateLogger(b, d.logger())
	trackBackend(b)
	d.compute = b
	d.logger().Info("postfx: using compute backend", "backend", b.Name())
	return b
}

func (d *Dispatcher) releaseCompute() {
	if d.compute == nil {
		return
	}
	untrackBackend(d.compute)
	d.compute.Close()
	d.compute = nil
}

// skip counts a passed-through frame and invalidates the history.
func (d *Dispatcher) skip(r SkipReason) {
	d.stats.skipped[r].Add(1)
	d.dropHistory()
	if r != SkipNoEffect && r != SkipDisabled {
		d.logger().Debug("postfx: frame skipped", "reason", r)
	}
}

func (d *Dispatcher) dropHistory() {
	if d.history != nil && d.spare == nil {
		d.spare = d.history
	}
	d.history = nil
	d.hasPrev = false
}

// HasHistory reports whether the next frame can blend with a previous one.
func (d *Dispatcher) HasHistory() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPrev
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	return d.stats.snapshot()
}

// Close releases the compute backend. Later frames are passed through
// unchanged. Close is idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.releaseCompute()
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
	d.history, d.spare, d.hasPrev = nil, nil, false
}
