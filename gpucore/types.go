// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each adapter implementation
// maintains a mapping between IDs and actual backend resources. IDs are
// uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading
	// (used to read back SLIC labels, cluster assignments, and centers).
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 2

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer
	// (kernel parameter structs below).
	BufferUsageUniform BufferUsage = 1 << 4

	// BufferUsageStorage indicates the buffer can be used as a storage buffer
	// (pixel, LAB, label, and feature arrays).
	BufferUsageStorage BufferUsage = 1 << 5
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageBuffer is a storage buffer binding (read-write).
	BindingTypeStorageBuffer

	// BindingTypeReadOnlyStorageBuffer is a read-only storage buffer binding.
	BindingTypeReadOnlyStorageBuffer
)

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout.
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Type is the type of resource bound at this index.
	Type BindingType

	// MinBindingSize is the minimum buffer size for buffer bindings.
	MinBindingSize uint64
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind.
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind. Zero binds the entire
	// buffer from Offset.
	Size uint64
}

// BindGroupDesc describes a bind group.
type BindGroupDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the bind group layout.
	Layout BindGroupLayoutID

	// Entries are the resource bindings.
	Entries []BindGroupEntry
}

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// ShaderModule contains the compute shader.
	ShaderModule ShaderModuleID

	// EntryPoint is the name of the shader entry point function.
	EntryPoint string
}

// Kernel uniform structs
//
// These mirror the WGSL uniform blocks consumed by the compiled kernel
// library (see internal/gpu/shaders.go). All structs use explicit padding
// to satisfy WGSL's 16-byte uniform alignment rule, the same convention
// gogpu/gputypes uses for its interop structs.

// ConvertParams parameterizes the color-convert-and-blur kernel
// (RGBA -> LAB with channel scaling, spec.md §4.2).
type ConvertParams struct {
	Width            uint32
	Height           uint32
	LightnessScale   float32
	GreenAxisScale   float32
	AlphaThreshold   float32 // 10/255
	Padding1         uint32
	Padding2         uint32
	Padding3         uint32
}

// SLICParams parameterizes one SLIC assignment iteration (spec.md §4.3).
type SLICParams struct {
	Width        uint32
	Height       uint32
	GridSpacing  uint32
	Compactness  float32
	CenterCountX uint32
	CenterCountY uint32
	Padding1     uint32
	Padding2     uint32
}

// KMeansParams describes one Lloyd assignment iteration of the 3D
// (color-only) or 5D (color+spatial) k-means++ clusterer (spec.md §4.5).
// No kernel in internal/gpu consumes it; k-means runs on the host
// (internal/kmeans).
type KMeansParams struct {
	PointCount   uint32
	ClusterCount uint32
	ColorWeight  float32
	SpatialWeight float32
	Dimensions   uint32 // 3 or 5
	Padding1     uint32
	Padding2     uint32
	Padding3     uint32
}

// TileSize is the edge length, in pixels, of the 16x16 workgroup declared
// by the convert and slic_assign kernels; the host dispatches
// ceil(W/TileSize) x ceil(H/TileSize) workgroups.
const TileSize = 16
