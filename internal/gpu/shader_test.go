// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"strings"
	"testing"
)

// TestKernelCompilation tests that the WGSL kernel compiles to SPIR-V.
func TestKernelCompilation(t *testing.T) {
	if kernelSource == "" {
		t.Fatal("kernel source is empty")
	}

	code, err := compiledKernel()
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "runtime-sized arrays not yet implemented") {
			t.Skip("Skipping: naga doesn't yet support runtime-sized arrays")
		}
		if strings.Contains(errStr, "not yet implemented") || strings.Contains(errStr, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		if strings.Contains(errStr, "lowering error") {
			t.Skipf("Skipping: naga lowering limitation: %v", err)
		}
		t.Fatalf("failed to compile kernel: %v", err)
	}

	if len(code) == 0 {
		t.Fatal("SPIR-V output is empty")
	}
	if code[0] != 0x07230203 {
		t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", code[0])
	}
	t.Logf("kernel compiled to %d words of SPIR-V", len(code))
}

func TestKernelDeclaresBindings(t *testing.T) {
	for _, want := range []string{
		"@binding(0) var<uniform> params",
		"@binding(1) var<storage, read> src",
		"@binding(2) var<storage, read_write> dst",
		"@binding(3) var<storage, read> history",
		"@workgroup_size(16, 16, 1)",
	} {
		if !strings.Contains(kernelSource, want) {
			t.Errorf("kernel source missing %q", want)
		}
	}
}
