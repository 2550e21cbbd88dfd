// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"
	"encoding/binary"
	"math"
	"runtime"

	"github.com/gogpu/icondecomp/gpucore"
	"github.com/gogpu/icondecomp/internal/feature"
	"github.com/gogpu/icondecomp/internal/parallel"
	"github.com/gogpu/icondecomp/internal/slic"
)

// segmentPool runs SLIC's CPU assignment step across goroutines, shared
// process-wide the way internal/gpu's kernel library shares one compiled
// kernel set (spec.md §5).
var segmentPool = parallel.NewWorkerPool(runtime.GOMAXPROCS(0))

func newSegmentOperation(superpixels int, compactness float64, depthWeight float64) operation {
	return operation{
		name:       "segment",
		inputType:  TypeLAB,
		outputType: TypeSuperpixelFeatures,
		run: func(ctx context.Context, ec *Context, adapter GPUAdapter) error {
			labImg := ec.LAB()
			alphaBuf := ec.Alpha()
			if labImg == nil || alphaBuf == nil {
				return newExecutionFailed("segment: missing lab/alpha buffers, run ConvertColorSpace first")
			}
			width, height := labImg.Width, labImg.Height

			lab := flattenLAB(labImg)
			alpha := alphaBuf.Pix

			params := slic.Params{
				NSegments:           superpixels,
				Compactness:         compactness,
				Iterations:          defaultSLICIterations,
				EnforceConnectivity: true,
			}

			var result slic.Result
			var err error
			if adapter != nil && adapter.SupportsCompute() {
				result, err = segmentGPU(adapter, lab, alpha, width, height, params)
			}
			if adapter == nil || !adapter.SupportsCompute() || err != nil {
				result = slic.Run(lab, alpha, width, height, params, segmentPool)
			}

			labels := &LabelMap{Width: width, Height: height, NumCenters: result.NumCenters, Labels: result.Labels}
			ec.SetBuffer(KeyLabelsBuffer, labels)

			var depth []float32
			if depthWeight != 0 {
				if d := ec.Depth(); d != nil {
					depth = d.Pix
				}
			}

			features := extractFeatures(lab, result.Labels, depth, width, height, result.NumCenters)
			ec.SetBuffer(KeySuperpixelFeatures, features)
			ec.SetMeta(MetaSuperpixelCount, len(features))
			ec.SetMeta(MetaCompactness, compactness)
			ec.SetMeta(MetaNumSLICCenters, result.NumCenters)
			return nil
		},
	}
}

func flattenLAB(img *LABImage) []float32 {
	out := make([]float32, len(img.Pix)*3)
	for i, c := range img.Pix {
		out[i*3+0], out[i*3+1], out[i*3+2] = c.L, c.A, c.B
	}
	return out
}

// extractFeatures wraps internal/feature.Extract, converting its result into
// the root package's SuperpixelFeature type.
func extractFeatures(lab []float32, labels []uint32, depth []float32, width, height, numCenters int) []SuperpixelFeature {
	fs := feature.Extract(lab, labels, depth, width, height, numCenters)
	out := make([]SuperpixelFeature, len(fs))
	for i, f := range fs {
		out[i] = SuperpixelFeature{
			ID:             f.ID,
			LABColor:       LAB{L: f.L, A: f.A, B: f.B},
			PixelCount:     f.PixelCount,
			CenterPosition: [2]float32{f.CenterX, f.CenterY},
			AverageDepth:   f.AverageDepth,
		}
	}
	return out
}

// segmentGPU runs SLIC's assignment step (internal/gpu/kernels/slic_assign.wgsl)
// on adapter for each of params.Iterations rounds, with center update and
// connectivity enforcement staying on the host (spec.md §4.3, §5): those are
// small O(numCenters)/O(W*H) reductions not worth a dispatch.
func segmentGPU(adapter GPUAdapter, lab []float32, alpha []float32, width, height int, p slic.Params) (slic.Result, error) {
	s, gridW, gridH := slic.GridSize(width, height, p.NSegments)
	numCenters := gridW * gridH
	centers := slic.InitGrid(lab, alpha, width, height, s, gridW, gridH)

	shader, err := loadSLICAssignKernel(adapter)
	if err != nil {
		return slic.Result{}, err
	}

	n := width * height
	labBuf, err := adapter.CreateBuffer(n*3*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopyDst)
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: allocate lab buffer: %v", err)
	}
	defer adapter.DestroyBuffer(labBuf)

	alphaBuf, err := adapter.CreateBuffer(n*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopyDst)
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: allocate alpha buffer: %v", err)
	}
	defer adapter.DestroyBuffer(alphaBuf)

	centersBuf, err := adapter.CreateBuffer(numCenters*5*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopyDst)
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: allocate centers buffer: %v", err)
	}
	defer adapter.DestroyBuffer(centersBuf)

	labelsBuf, err := adapter.CreateBuffer(n*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc)
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: allocate labels buffer: %v", err)
	}
	defer adapter.DestroyBuffer(labelsBuf)

	distancesBuf, err := adapter.CreateBuffer(n*4, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc)
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: allocate distances buffer: %v", err)
	}
	defer adapter.DestroyBuffer(distancesBuf)

	paramsBuf, err := adapter.CreateBuffer(32, gpucore.BufferUsageUniform|gpucore.BufferUsageCopyDst)
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: allocate params buffer: %v", err)
	}
	defer adapter.DestroyBuffer(paramsBuf)

	if err := adapter.WriteBuffer(labBuf, 0, encodeFloat32s(lab)); err != nil {
		return slic.Result{}, newExecutionFailedf("segment: write lab: %v", err)
	}
	if err := adapter.WriteBuffer(alphaBuf, 0, encodeFloat32s(alpha)); err != nil {
		return slic.Result{}, newExecutionFailedf("segment: write alpha: %v", err)
	}

	layout, err := adapter.CreateBindGroupLayout(gpucore.BindGroupLayoutDesc{
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeUniformBuffer},
			{Binding: 1, Type: gpucore.BindingTypeReadOnlyStorageBuffer},
			{Binding: 2, Type: gpucore.BindingTypeReadOnlyStorageBuffer},
			{Binding: 3, Type: gpucore.BindingTypeReadOnlyStorageBuffer},
			{Binding: 4, Type: gpucore.BindingTypeStorageBuffer},
			{Binding: 5, Type: gpucore.BindingTypeStorageBuffer},
		},
	})
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: bind group layout: %v", err)
	}
	defer adapter.DestroyBindGroupLayout(layout)

	bindGroup, err := adapter.CreateBindGroup(gpucore.BindGroupDesc{
		Layout: layout,
		Entries: []gpucore.BindGroupEntry{
			{Binding: 0, Buffer: paramsBuf},
			{Binding: 1, Buffer: labBuf},
			{Binding: 2, Buffer: alphaBuf},
			{Binding: 3, Buffer: centersBuf},
			{Binding: 4, Buffer: labelsBuf},
			{Binding: 5, Buffer: distancesBuf},
		},
	})
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: bind group: %v", err)
	}
	defer adapter.DestroyBindGroup(bindGroup)

	pipelineLayout, err := adapter.CreatePipelineLayout([]gpucore.BindGroupLayoutID{layout}, "slic_assign")
	if err != nil {
		return slic.Result{}, newExecutionFailedf("segment: pipeline layout: %v", err)
	}
	defer adapter.DestroyPipelineLayout(pipelineLayout)

	pipeline, err := adapter.CreateComputePipeline(gpucore.ComputePipelineDesc{
		ShaderModule: shader,
		EntryPoint:   "assign",
		Layout:       pipelineLayout,
		Label:        "slic_assign",
	})
	if err != nil {
		return slic.Result{}, newShaderLoadFailed("slic_assign", err)
	}
	defer adapter.DestroyComputePipeline(pipeline)

	wgX := uint32((width + gpucore.TileSize - 1) / gpucore.TileSize)
	wgY := uint32((height + gpucore.TileSize - 1) / gpucore.TileSize)

	labels := make([]uint32, n)
	iterations := p.Iterations
	if iterations <= 0 {
		iterations = defaultSLICIterations
	}
	for iter := 0; iter < iterations; iter++ {
		slicParams := gpucore.SLICParams{
			Width:        uint32(width),
			Height:       uint32(height),
			GridSpacing:  uint32(s),
			Compactness:  float32(p.Compactness),
			CenterCountX: uint32(gridW),
			CenterCountY: uint32(gridH),
		}
		if err := adapter.WriteBuffer(paramsBuf, 0, encodeSLICParams(slicParams)); err != nil {
			return slic.Result{}, newExecutionFailedf("segment: write params: %v", err)
		}
		if err := adapter.WriteBuffer(centersBuf, 0, encodeCenters(centers)); err != nil {
			return slic.Result{}, newExecutionFailedf("segment: write centers: %v", err)
		}
		if err := adapter.Dispatch(pipeline, bindGroup, wgX, wgY, 1); err != nil {
			return slic.Result{}, newExecutionFailedf("segment: dispatch: %v", err)
		}

		labelsWire, err := adapter.ReadBuffer(labelsBuf, 0, n*4)
		if err != nil {
			return slic.Result{}, newExecutionFailedf("segment: read labels: %v", err)
		}
		for i := range labels {
			labels[i] = binary.LittleEndian.Uint32(labelsWire[i*4:])
		}
		slic.UpdateCenters(lab, alpha, width, height, labels, centers, gridW)
	}
	if p.EnforceConnectivity {
		slic.EnforceConnectivity(labels, width, height)
	}

	return slic.Result{Labels: labels, NumCenters: numCenters, GridW: gridW, GridH: gridH, Centers: centers}, nil
}

func encodeFloat32s(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func encodeCenters(centers []slic.Center) []byte {
	buf := make([]byte, len(centers)*5*4)
	for i, c := range centers {
		o := i * 5 * 4
		binary.LittleEndian.PutUint32(buf[o+0:], math.Float32bits(c.X))
		binary.LittleEndian.PutUint32(buf[o+4:], math.Float32bits(c.Y))
		binary.LittleEndian.PutUint32(buf[o+8:], math.Float32bits(c.L))
		binary.LittleEndian.PutUint32(buf[o+12:], math.Float32bits(c.A))
		binary.LittleEndian.PutUint32(buf[o+16:], math.Float32bits(c.B))
	}
	return buf
}

func encodeSLICParams(p gpucore.SLICParams) []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:], p.Width)
	binary.LittleEndian.PutUint32(buf[4:], p.Height)
	binary.LittleEndian.PutUint32(buf[8:], p.GridSpacing)
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(p.Compactness))
	binary.LittleEndian.PutUint32(buf[16:], p.CenterCountX)
	binary.LittleEndian.PutUint32(buf[20:], p.CenterCountY)
	return buf
}
