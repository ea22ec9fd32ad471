package filter

import (
	"image"

	"github.com/gogpu/postfx/effect"
	"github.com/gogpu/postfx/internal/parallel"
)

// minBandRows keeps bands tall enough that the per-band luminance margin
// stays small next to the band itself.
const minBandRows = 32

// Chain returns the filters cfg enables, in the fixed order
// anti-aliasing, brightness, shadows, sharpening.
// history is the previous frame for temporal anti-aliasing; it may be nil.
func Chain(cfg *effect.Config, history *effect.Frame) []Filter {
	if !cfg.Enabled {
		return nil
	}
	var chain []Filter
	if cfg.AntiAliasing {
		chain = append(chain, NewAntiAliasFilter(cfg, history))
	}
	if cfg.Brightness && cfg.BrightnessLevel != 100 {
		chain = append(chain, &BrightnessFilter{Level: cfg.BrightnessLevel})
	}
	if cfg.Shadows {
		chain = append(chain, NewShadowFilter(cfg))
	}
	if cfg.Sharpening {
		chain = append(chain, &SharpenFilter{Strength: cfg.SharpeningStrength})
	}
	return chain
}

// Backend runs the effect chain on the CPU.
//
// Backend is not safe for concurrent use; the dispatcher calls it from the
// frame loop only.
type Backend struct {
	pool *parallel.WorkerPool
}

// NewBackend returns a CPU backend that processes frames on the calling
// goroutine.
func NewBackend() *Backend { return &Backend{} }

// NewParallelBackend returns a CPU backend that splits every stage into
// horizontal bands run on pool. The caller owns pool.
func NewParallelBackend(pool *parallel.WorkerPool) *Backend {
	return &Backend{pool: pool}
}

// Name returns the backend name.
func (b *Backend) Name() string { return "cpu" }

// Process applies the chain to the whole frame in place.
func (b *Backend) Process(f, prev *effect.Frame, cfg *effect.Config) error {
	if err := f.Valid(); err != nil {
		return err
	}
	return b.ProcessRegion(f, prev, cfg, f.Bounds())
}

// ProcessRegion applies the chain to the pixels of f inside bounds.
// Pixels outside bounds are left untouched but are still sampled by
// neighbourhood effects.
func (b *Backend) ProcessRegion(f, prev *effect.Frame, cfg *effect.Config, bounds image.Rectangle) error {
	if err := f.Valid(); err != nil {
		return err
	}
	bounds = bounds.Intersect(f.Bounds())
	if bounds.Empty() {
		return nil
	}
	if !f.SameSize(prev) {
		prev = nil
	}
	chain := Chain(cfg, prev)
	if len(chain) == 0 {
		return nil
	}

	if len(chain) == 1 {
		src := getFrame(f)
		defer putFrame(src)
		b.apply(chain[0], src, f, bounds)
		return nil
	}

	src, dst := getFrame(f), getFrame(f)
	defer putFrame(src)
	defer putFrame(dst)
	for _, stage := range chain {
		b.apply(stage, src, dst, bounds)
		src, dst = dst, src
	}
	copyRegion(src, f, bounds)
	return nil
}

// apply runs one stage over bounds, band-parallel when a pool is set.
// Stages only read src, so bands never race.
func (b *Backend) apply(stage Filter, src, dst *effect.Frame, bounds image.Rectangle) {
	if b.pool == nil {
		stage.Apply(src, dst, bounds)
		return
	}
	b.pool.ForEachBand(bounds, minBandRows, func(band image.Rectangle) {
		stage.Apply(src, dst, band)
	})
}
