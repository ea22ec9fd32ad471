// Package gpu runs the post-processing chain as a WGSL compute kernel on
// wgpu/hal.
//
// The kernel is compiled once from WGSL to SPIR-V with naga. Each frame is
// uploaded to a storage buffer, processed by one compute pass per enabled
// stage (ping-ponging between two buffers), copied to a staging buffer and
// read back after a fence wait.
//
// A ComputeBackend is bound to the OS thread that created it. Calls from any
// other thread fail with postfx.ErrWrongThread and leave the frame untouched.
package gpu
