// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore defines the GPU resource model shared by icondecomp's
// compute kernels: opaque resource handles, buffer usage flags,
// bind-group descriptors, and the kernel uniform structs that must match
// the WGSL layouts compiled by internal/gpu's kernel library.
//
// It also declares GPUAdapter, the abstraction the pipeline programs
// against so that a real wgpu-backed device and a CPU reference
// implementation can be swapped without touching algorithm code.
//
// # Architecture
//
// icondecomp follows the same CPU/GPU split as gogpu/gg: algorithm
// packages (internal/slic, internal/kmeans, ...) own the numerically
// authoritative CPU implementation; internal/gpu owns the optional
// accelerated path through a compiled kernel library. gpucore is the
// vocabulary both sides share.
package gpucore
