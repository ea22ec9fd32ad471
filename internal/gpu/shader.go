// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed shaders/postfx.wgsl
var kernelSource string

var (
	kernelOnce  sync.Once
	kernelSPIRV []uint32
	kernelErr   error
)

// compiledKernel returns the SPIR-V of the post-processing kernel, compiling
// it on first use.
func compiledKernel() ([]uint32, error) {
	kernelOnce.Do(func() {
		kernelSPIRV, kernelErr = compileToSPIRV(kernelSource)
	})
	return kernelSPIRV, kernelErr
}

// compileToSPIRV compiles WGSL source to SPIR-V words.
func compileToSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}
