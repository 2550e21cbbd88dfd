// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// GPUAdapter abstracts over different GPU backend implementations.
//
// This interface is the core abstraction that lets the pipeline run against
// a real device (gogpu/wgpu HAL) or decline to do so, in which case the
// pipeline falls back to its pure Go reference implementation for every
// stage. Implementations must be safe for concurrent use: branch
// executions of the same parent pipeline may dispatch kernels concurrently
// (spec.md §5).
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly released via Destroy* methods
//   - IDs become invalid after destruction and must not be reused
type GPUAdapter interface {
	// === Capabilities ===

	// SupportsCompute returns whether compute shaders are supported. If
	// false, the pipeline uses the CPU reference implementation for every
	// stage and never calls the methods below.
	SupportsCompute() bool

	// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
	MaxWorkgroupSize() [3]uint32

	// MaxBufferSize returns the maximum buffer size in bytes.
	MaxBufferSize() uint64

	// === Shader Compilation ===

	// CreateShaderModule compiles WGSL source (produced by naga from the
	// kernel library) into a shader module.
	CreateShaderModule(wgsl string, label string) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// === Buffer Management ===

	// CreateBuffer creates a GPU buffer of the given size and usage.
	CreateBuffer(size int, usage BufferUsage) (BufferID, error)

	// DestroyBuffer releases a GPU buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer uploads data to a buffer at the given byte offset.
	WriteBuffer(id BufferID, offset int, data []byte) error

	// ReadBuffer downloads size bytes from a buffer starting at offset.
	// This maps the buffer, blocks for device completion, copies out the
	// data, and unmaps — the synchronous submit/wait contract required by
	// spec.md §4.1.
	ReadBuffer(id BufferID, offset, size int) ([]byte, error)

	// === Bind Groups & Pipelines ===

	CreateBindGroupLayout(desc BindGroupLayoutDesc) (BindGroupLayoutID, error)
	DestroyBindGroupLayout(id BindGroupLayoutID)

	CreateBindGroup(desc BindGroupDesc) (BindGroupID, error)
	DestroyBindGroup(id BindGroupID)

	CreatePipelineLayout(bindGroupLayouts []BindGroupLayoutID, label string) (PipelineLayoutID, error)
	DestroyPipelineLayout(id PipelineLayoutID)

	CreateComputePipeline(desc ComputePipelineDesc) (ComputePipelineID, error)
	DestroyComputePipeline(id ComputePipelineID)

	// === Dispatch ===

	// Dispatch submits one compute pass: binds pipeline and bind group,
	// dispatches workgroupsX*Y*Z workgroups, commits the command buffer,
	// and blocks until the device signals completion. There is no
	// asynchronous dispatch surface — the pipeline's suspension points are
	// exactly the calls to this method (spec.md §5).
	Dispatch(pipeline ComputePipelineID, bindGroup BindGroupID, workgroupsX, workgroupsY, workgroupsZ uint32) error

	// === Lifecycle ===

	// Close releases the device, queue, and kernel library. Safe to call
	// more than once.
	Close()
}
