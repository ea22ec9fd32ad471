// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// frameBuffers are the per-size GPU buffers. They are always allocated and
// freed together.
type frameBuffers struct {
	width, height int
	size          uint64 // bytes per frame

	ping    hal.Buffer // stage input/output, swapped each pass
	pong    hal.Buffer
	history hal.Buffer
	staging hal.Buffer
}

func (fb *frameBuffers) matches(w, h int) bool {
	return fb.ping != nil && fb.width == w && fb.height == h
}

// alloc creates every buffer for a w x h frame. On error the buffers created
// so far are destroyed.
func (fb *frameBuffers) alloc(device hal.Device, w, h int) error {
	size := uint64(w) * uint64(h) * 4 //nolint:gosec // dimensions are non-negative
	storage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst

	descs := []struct {
		dst   *hal.Buffer
		label string
		usage gputypes.BufferUsage
	}{
		{&fb.ping, "postfx_ping", storage},
		{&fb.pong, "postfx_pong", storage},
		{&fb.history, "postfx_history", storage},
		{&fb.staging, "postfx_staging", gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
	}
	for _, d := range descs {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{Label: d.label, Size: size, Usage: d.usage})
		if err != nil {
			fb.free(device)
			return fmt.Errorf("create %s buffer (%d bytes): %w", d.label, size, err)
		}
		*d.dst = buf
	}
	fb.width, fb.height, fb.size = w, h, size
	return nil
}

// free destroys every buffer. It is safe to call on empty buffers.
func (fb *frameBuffers) free(device hal.Device) {
	for _, b := range []*hal.Buffer{&fb.ping, &fb.pong, &fb.history, &fb.staging} {
		if *b != nil {
			device.DestroyBuffer(*b)
			*b = nil
		}
	}
	fb.width, fb.height, fb.size = 0, 0, 0
}

// passBindings holds the per-pass uniform buffers and bind groups of one
// frame.
type passBindings struct {
	uniforms   []hal.Buffer
	bindGroups []hal.BindGroup
}

func (pb *passBindings) destroy(device hal.Device) {
	for _, bg := range pb.bindGroups {
		if bg != nil {
			device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range pb.uniforms {
		if ub != nil {
			device.DestroyBuffer(ub)
		}
	}
	pb.uniforms, pb.bindGroups = pb.uniforms[:0], pb.bindGroups[:0]
}
