// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/gogpu/icondecomp/gpucore"
	"github.com/gogpu/icondecomp/internal/colorspace"
	"github.com/gogpu/icondecomp/internal/imageio"
)

func newConvertOperation(scale LABScale) operation {
	return operation{
		name:       "convertColorSpace",
		inputType:  TypeNone,
		outputType: TypeLAB,
		run: func(ctx context.Context, ec *Context, adapter GPUAdapter) error {
			rgba, err := requireBuffer[*RGBAImage](ec, KeyInput)
			if err != nil {
				return err
			}
			ec.SetBuffer(KeyRGBAImage, rgba)

			composited := imageio.CompositeOverWhite(rgba.Pix, rgba.Width, rgba.Height)
			origAlpha := make([]uint8, rgba.Width*rgba.Height)
			for i := range origAlpha {
				origAlpha[i] = rgba.Pix[i*4+3]
			}

			var lab []float32
			var alpha []float32
			if adapter != nil && adapter.SupportsCompute() {
				lab, alpha, err = convertGPU(adapter, composited, origAlpha, rgba.Width, rgba.Height, scale)
			}
			if adapter == nil || !adapter.SupportsCompute() || err != nil {
				lab, alpha = colorspace.Convert(composited, origAlpha, rgba.Width, rgba.Height, colorspace.Params{
					LightnessScale: scale.L,
					GreenAxisScale: scale.Green,
				})
			}

			labImg := &LABImage{Width: rgba.Width, Height: rgba.Height, Pix: make([]LAB, rgba.Width*rgba.Height)}
			for i := range labImg.Pix {
				labImg.Pix[i] = LAB{L: lab[i*3+0], A: lab[i*3+1], B: lab[i*3+2]}
			}
			alphaBuf := &AlphaBuffer{Width: rgba.Width, Height: rgba.Height, Pix: alpha}

			ec.SetBuffer(KeyLABImage, labImg)
			ec.SetBuffer(KeyAlphaBuffer, alphaBuf)
			ec.SetMeta(MetaWidth, rgba.Width)
			ec.SetMeta(MetaHeight, rgba.Height)
			ec.SetMeta(MetaColorSpace, "lab")
			ec.SetMeta(MetaLabScale, scale)
			return nil
		},
	}
}

// convertGPU runs the color-convert kernel (internal/gpu/kernels/convert.wgsl)
// on the adapter, returning interleaved LAB triples and an alpha buffer in
// the same layout as the CPU path so callers don't need to know which ran.
func convertGPU(adapter GPUAdapter, pix []uint8, origAlpha []uint8, width, height int, scale LABScale) (lab []float32, alpha []float32, err error) {
	shader, err := loadConvertKernel(adapter)
	if err != nil {
		return nil, nil, err
	}

	n := width * height
	rgbaBuf, err := adapter.CreateBuffer(n*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopyDst)
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: allocate rgba buffer: %v", err)
	}
	defer adapter.DestroyBuffer(rgbaBuf)

	labBuf, err := adapter.CreateBuffer(n*3*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc)
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: allocate lab buffer: %v", err)
	}
	defer adapter.DestroyBuffer(labBuf)

	alphaBuf, err := adapter.CreateBuffer(n*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc)
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: allocate alpha buffer: %v", err)
	}
	defer adapter.DestroyBuffer(alphaBuf)

	paramsBuf, err := adapter.CreateBuffer(32, gpucore.BufferUsageUniform|gpucore.BufferUsageCopyDst)
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: allocate params buffer: %v", err)
	}
	defer adapter.DestroyBuffer(paramsBuf)

	rgbaWire := make([]byte, n*4)
	for i := 0; i < n; i++ {
		r, g, b := pix[i*4+0], pix[i*4+1], pix[i*4+2]
		binary.LittleEndian.PutUint32(rgbaWire[i*4:], uint32(r)|uint32(g)<<8|uint32(b)<<16|uint32(origAlpha[i])<<24)
	}
	if err := adapter.WriteBuffer(rgbaBuf, 0, rgbaWire); err != nil {
		return nil, nil, newExecutionFailedf("convert: write rgba: %v", err)
	}

	params := gpucore.ConvertParams{
		Width:           uint32(width),
		Height:          uint32(height),
		LightnessScale:  float32(scale.L),
		GreenAxisScale:  float32(scale.Green),
		AlphaThreshold:  AlphaThreshold,
	}
	if err := adapter.WriteBuffer(paramsBuf, 0, encodeConvertParams(params)); err != nil {
		return nil, nil, newExecutionFailedf("convert: write params: %v", err)
	}

	layout, err := adapter.CreateBindGroupLayout(gpucore.BindGroupLayoutDesc{
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeUniformBuffer},
			{Binding: 1, Type: gpucore.BindingTypeReadOnlyStorageBuffer},
			{Binding: 2, Type: gpucore.BindingTypeStorageBuffer},
			{Binding: 3, Type: gpucore.BindingTypeStorageBuffer},
		},
	})
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: bind group layout: %v", err)
	}
	defer adapter.DestroyBindGroupLayout(layout)

	bindGroup, err := adapter.CreateBindGroup(gpucore.BindGroupDesc{
		Layout: layout,
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Buffer: paramsBuf},
			{Binding: 1, Buffer: rgbaBuf},
			{Binding: 2, Buffer: labBuf},
			{Binding: 3, Buffer: alphaBuf},
		},
	})
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: bind group: %v", err)
	}
	defer adapter.DestroyBindGroup(bindGroup)

	pipelineLayout, err := adapter.CreatePipelineLayout([]gpucore.BindGroupLayoutID{layout}, "convert")
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: pipeline layout: %v", err)
	}
	defer adapter.DestroyPipelineLayout(pipelineLayout)

	pipeline, err := adapter.CreateComputePipeline(gpucore.ComputePipelineDesc{
		ShaderModule: shader,
		EntryPoint:   "blur_and_convert",
		Layout:       pipelineLayout,
		Label:        "convert",
	})
	if err != nil {
		return nil, nil, newShaderLoadFailed("convert", err)
	}
	defer adapter.DestroyComputePipeline(pipeline)

	wgX := uint32((width + gpucore.TileSize - 1) / gpucore.TileSize)
	wgY := uint32((height + gpucore.TileSize - 1) / gpucore.TileSize)
	if err := adapter.Dispatch(pipeline, bindGroup, wgX, wgY, 1); err != nil {
		return nil, nil, newExecutionFailedf("convert: dispatch: %v", err)
	}

	labWire, err := adapter.ReadBuffer(labBuf, 0, n*3*4)
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: read lab: %v", err)
	}
	alphaWire, err := adapter.ReadBuffer(alphaBuf, 0, n*4)
	if err != nil {
		return nil, nil, newExecutionFailedf("convert: read alpha: %v", err)
	}

	lab = make([]float32, n*3)
	for i := range lab {
		lab[i] = math.Float32frombits(binary.LittleEndian.Uint32(labWire[i*4:]))
	}
	alpha = make([]float32, n)
	for i := range alpha {
		alpha[i] = math.Float32frombits(binary.LittleEndian.Uint32(alphaWire[i*4:]))
	}
	return lab, alpha, nil
}

func encodeConvertParams(p gpucore.ConvertParams) []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:], p.Width)
	binary.LittleEndian.PutUint32(buf[4:], p.Height)
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(p.LightnessScale))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(p.GreenAxisScale))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(p.AlphaThreshold))
	return buf
}
