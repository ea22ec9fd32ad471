//go:build nogpu

package gpu

import "github.com/gogpu/gpucontext"

// SetDeviceProvider does nothing in nogpu builds.
func SetDeviceProvider(gpucontext.DeviceProvider) {}
