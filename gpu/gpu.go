//go:build !nogpu

// Package gpu registers the Vulkan compute backend for postfx.
//
// Import this package to run the effect chain as a compute kernel:
//
//	import _ "github.com/gogpu/postfx/gpu" // enable GPU post-processing
//
// The backend is created lazily by each dispatcher on its first processed
// frame, on the frame loop's thread. If no Vulkan device is available the
// dispatcher logs once and stays on the CPU.
package gpu

import (
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/postfx"
	gpuimpl "github.com/gogpu/postfx/internal/gpu"
)

func init() {
	postfx.RegisterComputeBackend(newBackend)
}

var (
	providerMu sync.RWMutex
	provider   gpucontext.DeviceProvider
)

// SetDeviceProvider makes backends created afterwards share the host's GPU
// device instead of opening their own. The provider must also implement
// HalDevice() any and HalQueue() any returning wgpu/hal types.
// Pass nil to go back to a private device.
func SetDeviceProvider(p gpucontext.DeviceProvider) {
	providerMu.Lock()
	provider = p
	providerMu.Unlock()
}

func currentProvider() gpucontext.DeviceProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider
}

// newBackend is the registered postfx.Factory.
func newBackend() (postfx.Backend, error) {
	var (
		b   *gpuimpl.ComputeBackend
		err error
	)
	if p := currentProvider(); p != nil {
		b, err = gpuimpl.NewWithDevice(p)
	} else {
		b, err = gpuimpl.New()
	}
	if err != nil {
		return nil, err
	}
	b.SetLogger(postfx.Logger())
	return b, nil
}
