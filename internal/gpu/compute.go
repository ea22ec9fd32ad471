// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/effect"
	"github.com/gogpu/postfx/internal/thread"
)

// fenceTimeout bounds the wait for one frame's GPU work.
const fenceTimeout = 5 * time.Second

// maxFrameBytes is the largest frame the backend accepts; it matches the
// default storage buffer binding limit. Larger frames go to the CPU.
const maxFrameBytes = 128 << 20

// ComputeBackend runs the effect chain on the GPU.
// It implements postfx.Backend.
type ComputeBackend struct {
	mu       sync.Mutex
	affinity thread.Affinity
	state    State

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool // device shared from a provider; not destroyed on Close
	adapter  string

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	bufs     frameBuffers
	bindings passBindings
	upload   []byte
	readback []byte
}

var _ postfx.Backend = (*ComputeBackend)(nil)

// New opens a Vulkan device, builds the kernel pipeline and binds the
// backend to the calling OS thread.
func New() (*ComputeBackend, error) {
	b := &ComputeBackend{}
	if err := b.affinity.Bind(); err != nil {
		return nil, fmt.Errorf("gpu: bind thread: %w", err)
	}
	if err := b.openDevice(); err != nil {
		b.fail()
		return nil, fmt.Errorf("gpu: %w", err)
	}
	if err := b.buildPipeline(); err != nil {
		b.fail()
		return nil, fmt.Errorf("gpu: %w", err)
	}
	b.state = StateReady
	slogger().Info("gpu: compute backend ready", "adapter", b.adapter)
	return b, nil
}

// NewWithDevice builds the backend on a device shared by the host. The
// provider must also expose HalDevice() and HalQueue() returning hal types.
func NewWithDevice(provider gpucontext.DeviceProvider) (*ComputeBackend, error) {
	b := &ComputeBackend{}
	if err := b.affinity.Bind(); err != nil {
		return nil, fmt.Errorf("gpu: bind thread: %w", err)
	}
	if err := b.useProvider(provider); err != nil {
		b.fail()
		return nil, err
	}
	b.state = StateReady
	return b, nil
}

// Name returns the backend name.
func (b *ComputeBackend) Name() string { return "gpu" }

// SetLogger implements the postfx logger propagation hook.
func (b *ComputeBackend) SetLogger(l *slog.Logger) { setLogger(l) }

// State returns the lifecycle state.
func (b *ComputeBackend) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Size returns the dimensions the frame buffers are allocated for.
func (b *ComputeBackend) Size() (w, h int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bufs.width, b.bufs.height
}

// SetDeviceProvider switches the backend to a device shared by the host.
// It must be called from the owner thread.
func (b *ComputeBackend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if err := b.affinity.Check(); err != nil {
		return fmt.Errorf("%w: %w", postfx.ErrWrongThread, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateDisposed {
		return postfx.ErrClosed
	}
	b.releaseDevice()
	if err := b.useProvider(provider); err != nil {
		b.state = StateFailed
		return err
	}
	b.state = StateReady
	slogger().Info("gpu: switched to shared GPU device")
	return nil
}

// useProvider adopts the provider's device and rebuilds the pipeline.
func (b *ComputeBackend) useProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}
	b.device, b.queue, b.external = device, queue, true
	b.adapter = "shared"
	b.state = StateContextBound
	if err := b.buildPipeline(); err != nil {
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	return nil
}

func (b *ComputeBackend) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapter = selected.Info.Name
	b.state = StateContextBound
	return nil
}

func (b *ComputeBackend) buildPipeline() error {
	spirv, err := compiledKernel()
	if err != nil {
		return err
	}
	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "postfx_kernel",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = shader

	entry := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding: binding, Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{Type: t},
		}
	}
	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "postfx_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			entry(0, gputypes.BufferBindingTypeUniform),
			entry(1, gputypes.BufferBindingTypeReadOnlyStorage),
			entry(2, gputypes.BufferBindingTypeStorage),
			entry(3, gputypes.BufferBindingTypeReadOnlyStorage),
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "postfx_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "postfx_pipeline", Layout: b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

// Process implements postfx.Backend. f is written only on success.
func (b *ComputeBackend) Process(f, prev *effect.Frame, cfg *effect.Config) error {
	if err := b.affinity.Check(); err != nil {
		return fmt.Errorf("%w: %w", postfx.ErrWrongThread, err)
	}
	if err := f.Valid(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateReady:
	case StateDisposed:
		return postfx.ErrClosed
	default:
		return fmt.Errorf("%w: backend %s", postfx.ErrFallbackToCPU, b.state)
	}

	if f.Len() == 0 {
		return nil
	}
	if uint64(f.Len())*4 > maxFrameBytes {
		return fmt.Errorf("%w: frame %dx%d exceeds storage binding limit", postfx.ErrFallbackToCPU, f.Width, f.Height)
	}

	hasHistory := cfg.NeedsHistory() && f.SameSize(prev)
	passes := planPasses(cfg, hasHistory)
	if len(passes) == 0 {
		// Nothing to run: match the CPU copy, which clears the upper byte.
		for i, p := range f.Pix {
			f.Pix[i] = effect.RGB(p)
		}
		return nil
	}

	if !b.bufs.matches(f.Width, f.Height) {
		if err := b.resize(f.Width, f.Height); err != nil {
			return err
		}
	}

	b.upload = packPixels(b.upload, f.Pix)
	b.queue.WriteBuffer(b.bufs.ping, 0, b.upload)
	if hasHistory {
		b.upload = packPixels(b.upload, prev.Pix)
		b.queue.WriteBuffer(b.bufs.history, 0, b.upload)
	}

	params := newKernelParams(cfg, f.Width, f.Height, hasHistory)
	if err := b.bindPasses(passes, &params); err != nil {
		b.bindings.destroy(b.device)
		return err
	}
	defer b.bindings.destroy(b.device)

	if err := b.dispatch(len(passes), f.Width, f.Height); err != nil {
		return err
	}
	unpackPixels(f.Pix, b.readback)
	slogger().Debug("gpu: frame processed", "w", f.Width, "h", f.Height, "passes", len(passes))
	return nil
}

// resize reallocates every frame buffer for the new size.
func (b *ComputeBackend) resize(w, h int) error {
	b.state = StateResizing
	b.bufs.free(b.device)
	if err := b.bufs.alloc(b.device, w, h); err != nil {
		b.state = StateReady
		return err
	}
	b.readback = make([]byte, b.bufs.size)
	b.state = StateReady
	slogger().Debug("gpu: frame buffers allocated", "w", w, "h", h, "bytes", b.bufs.size)
	return nil
}

// passIO returns the source and destination buffers of pass i.
func (b *ComputeBackend) passIO(i int) (src, dst hal.Buffer) {
	if i%2 == 0 {
		return b.bufs.ping, b.bufs.pong
	}
	return b.bufs.pong, b.bufs.ping
}

// bindPasses creates one uniform buffer and bind group per pass.
func (b *ComputeBackend) bindPasses(passes []passKind, params *kernelParams) error {
	size := b.bufs.size
	for i, kind := range passes {
		params.Kind = kind
		ub, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "postfx_params", Size: paramsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		b.bindings.uniforms = append(b.bindings.uniforms, ub)
		b.queue.WriteBuffer(ub, 0, params.bytes())

		src, dst := b.passIO(i)
		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "postfx_bind_" + kind.String(), Layout: b.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: src.NativeHandle(), Offset: 0, Size: size}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dst.NativeHandle(), Offset: 0, Size: size}},
				{Binding: 3, Resource: gputypes.BufferBinding{Buffer: b.bufs.history.NativeHandle(), Offset: 0, Size: size}},
			},
		})
		if err != nil {
			return fmt.Errorf("create bind group %d: %w", i, err)
		}
		b.bindings.bindGroups = append(b.bindings.bindGroups, bg)
	}
	return nil
}

// dispatch encodes one compute pass per bind group, copies the last output
// to the staging buffer, submits and reads back. Pass boundaries order the
// storage writes of one stage before the reads of the next.
func (b *ComputeBackend) dispatch(n, w, h int) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "postfx_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("postfx_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	gx, gy := workgroups(w, h)
	for _, bg := range b.bindings.bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "postfx_pass"})
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(gx, gy, 1)
		pass.End()
	}

	// After n passes the result is in the destination of pass n-1.
	_, result := b.passIO(n - 1)
	encoder.CopyBufferToBuffer(result, b.bufs.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: b.bufs.size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for GPU: timed out after %v", fenceTimeout)
	}
	if err := b.queue.ReadBuffer(b.bufs.staging, 0, b.readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	return nil
}

func (b *ComputeBackend) destroyPipeline() {
	if b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

// releaseDevice frees buffers and pipeline, then the device and instance
// unless they are shared.
func (b *ComputeBackend) releaseDevice() {
	if b.device != nil {
		b.bindings.destroy(b.device)
		b.bufs.free(b.device)
	}
	b.destroyPipeline()
	if !b.external {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device, b.queue, b.instance = nil, nil, nil
	b.external = false
	b.readback, b.upload = nil, nil
}

// fail releases everything and marks the backend unusable.
func (b *ComputeBackend) fail() {
	b.releaseDevice()
	b.affinity.Release()
	b.state = StateFailed
}

// Close releases all GPU resources. Close is idempotent.
func (b *ComputeBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateDisposed {
		return
	}
	if err := b.affinity.Check(); err != nil {
		slogger().Warn("gpu: closing compute backend off its thread", "err", err)
	}
	b.releaseDevice()
	b.state = StateDisposed
}
