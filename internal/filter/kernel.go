package filter

import "sync"

// tap is one weighted sample offset of the MSAA kernel.
type tap struct {
	dx, dy int
	w      float64
}

// msaaKernel returns the square kernel of the given side. Offsets run from
// -side/2 to side-1-side/2 on both axes and each tap is weighted
// 1/(1+|dx|+|dy|). Weights are not normalized; callers divide by their sum.
//
// For side <= 1, returns the single center tap (identity).
func msaaKernel(side int) []tap {
	if side <= 1 {
		return []tap{{0, 0, 1}}
	}
	lo := -(side / 2)
	taps := make([]tap, 0, side*side)
	for dy := lo; dy < lo+side; dy++ {
		for dx := lo; dx < lo+side; dx++ {
			taps = append(taps, tap{dx: dx, dy: dy, w: 1 / float64(1+abs(dx)+abs(dy))})
		}
	}
	return taps
}

// kernelCache caches MSAA kernels by side.
type kernelCache struct {
	mu    sync.RWMutex
	cache map[int][]tap
}

var defaultKernelCache = &kernelCache{cache: make(map[int][]tap)}

// cachedMSAAKernel returns a shared kernel; callers must not modify it.
func cachedMSAAKernel(side int) []tap {
	defaultKernelCache.mu.RLock()
	k, ok := defaultKernelCache.cache[side]
	defaultKernelCache.mu.RUnlock()
	if ok {
		return k
	}

	k = msaaKernel(side)
	defaultKernelCache.mu.Lock()
	defaultKernelCache.cache[side] = k
	defaultKernelCache.mu.Unlock()
	return k
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
