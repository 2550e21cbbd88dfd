// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layer builds per-cluster RGBA buffers from a pixel->cluster map,
// and computes each layer's pixel count and mean LAB color (spec.md §4.7).
package layer

// AlphaThreshold is the minimum alpha (out of 255) for a pixel to count
// toward a layer's pixel count and mean color (spec.md §4.7).
const AlphaThreshold = 10.0 / 255.0 * 255

// Layer is one extracted layer.
type Layer struct {
	RGBA       []uint8 // row-major RGBA8, width*height*4
	PixelCount int
	MeanL      float32
	MeanA      float32
	MeanB      float32
}

// Extract builds one RGBA buffer per cluster in [0, K): pixels whose
// cluster matches k keep their original color, all others are fully
// transparent. Empty layers (PixelCount == 0) are omitted from the
// result, and the returned slice is indexed by output position, not
// cluster id.
//
// clusters[i] == -1 marks a pixel not assigned to any cluster
// (transparent throughout, e.g. it was excluded during segmentation).
// lab is the row-major (L,a,b) buffer produced by color conversion, used
// to compute each layer's mean color.
func Extract(rgba []uint8, clusters []int32, lab []float32, width, height, k int) []Layer {
	type accum struct {
		sl, sa, sb float64
		count      int
	}
	sums := make([]accum, k)
	buffers := make([][]uint8, k)
	for i := range buffers {
		buffers[i] = make([]uint8, width*height*4)
	}

	for i := 0; i < width*height; i++ {
		c := clusters[i]
		if c < 0 || int(c) >= k {
			continue
		}
		src := rgba[i*4 : i*4+4]
		dst := buffers[c][i*4 : i*4+4]
		copy(dst, src)

		if float32(src[3]) > AlphaThreshold {
			a := &sums[c]
			a.sl += float64(lab[i*3+0])
			a.sa += float64(lab[i*3+1])
			a.sb += float64(lab[i*3+2])
			a.count++
		}
	}

	out := make([]Layer, 0, k)
	for c := 0; c < k; c++ {
		if sums[c].count == 0 {
			continue
		}
		n := float64(sums[c].count)
		out = append(out, Layer{
			RGBA:       buffers[c],
			PixelCount: sums[c].count,
			MeanL:      float32(sums[c].sl / n),
			MeanA:      float32(sums[c].sa / n),
			MeanB:      float32(sums[c].sb / n),
		})
	}
	return out
}
