//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/gogpu/postfx"
)

func TestImportRegistersFactory(t *testing.T) {
	if postfx.ComputeFactory() == nil {
		t.Fatal("importing gpu did not register a compute backend factory")
	}
}

func TestSetDeviceProviderNil(t *testing.T) {
	SetDeviceProvider(nil)
	if currentProvider() != nil {
		t.Error("provider not cleared")
	}
}
