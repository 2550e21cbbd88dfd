// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"github.com/gogpu/icondecomp/gpucore"
	"github.com/gogpu/icondecomp/internal/gpu"
)

// loadConvertKernel compiles the color-convert-and-blur kernel
// (internal/gpu/kernels/convert.wgsl) on adapter, returning a shader
// module the caller is responsible for destroying.
func loadConvertKernel(adapter GPUAdapter) (gpucore.ShaderModuleID, error) {
	return compileKernel(adapter, gpu.KernelConvert)
}

// loadSLICAssignKernel compiles the SLIC assignment kernel
// (internal/gpu/kernels/slic_assign.wgsl) on adapter.
func loadSLICAssignKernel(adapter GPUAdapter) (gpucore.ShaderModuleID, error) {
	return compileKernel(adapter, gpu.KernelSLICAssign)
}

func compileKernel(adapter GPUAdapter, name string) (gpucore.ShaderModuleID, error) {
	src, err := gpu.LoadKernelSource(name)
	if err != nil {
		return gpucore.ShaderModuleID(gpucore.InvalidID), newShaderLoadFailed(name, err)
	}
	id, err := adapter.CreateShaderModule(src, name)
	if err != nil {
		return gpucore.ShaderModuleID(gpucore.InvalidID), newShaderLoadFailed(name, err)
	}
	return id, nil
}
