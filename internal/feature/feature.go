// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package feature aggregates per-pixel LAB, position, and optional depth
// data into per-superpixel features (spec.md §4.4).
package feature

import "github.com/gogpu/icondecomp/internal/slic"

// Feature is one superpixel's aggregated statistics.
type Feature struct {
	ID             int
	L, A, B        float32
	PixelCount     int
	CenterX        float32
	CenterY        float32
	AverageDepth   float32
}

// Extract accumulates sums of L, a, b, x, y, depth and a count per
// superpixel, then divides by count. Superpixels with zero visible
// pixels are omitted (id holes are preserved; the result is not dense).
// depth may be nil, in which case AverageDepth is left at 0.
func Extract(lab []float32, labels []uint32, depth []float32, width, height, numCenters int) []Feature {
	type accum struct {
		sl, sa, sb, sx, sy, sd float64
		count                  int
	}
	sums := make([]accum, numCenters)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			lbl := labels[idx]
			if lbl == slic.Sentinel || int(lbl) >= numCenters {
				continue
			}
			a := &sums[lbl]
			a.sl += float64(lab[idx*3+0])
			a.sa += float64(lab[idx*3+1])
			a.sb += float64(lab[idx*3+2])
			a.sx += float64(x)
			a.sy += float64(y)
			if depth != nil {
				a.sd += float64(depth[idx])
			}
			a.count++
		}
	}

	features := make([]Feature, 0, numCenters)
	for id, a := range sums {
		if a.count == 0 {
			continue
		}
		n := float64(a.count)
		features = append(features, Feature{
			ID:           id,
			L:            float32(a.sl / n),
			A:            float32(a.sa / n),
			B:            float32(a.sb / n),
			PixelCount:   a.count,
			CenterX:      float32(a.sx / n),
			CenterY:      float32(a.sy / n),
			AverageDepth: float32(a.sd / n),
		})
	}
	return features
}

// ColorFeatures projects features onto their LAB color, one triple per
// feature (spec.md §4.4 colorFeatures).
func ColorFeatures(features []Feature) [][3]float32 {
	out := make([][3]float32, len(features))
	for i, f := range features {
		out[i] = [3]float32{f.L, f.A, f.B}
	}
	return out
}

// SpatialFeatures projects features onto position normalized into [0,100]
// (spec.md §4.4 spatialFeatures), the same range as the L channel so a
// unit-weighted 5D distance is meaningful.
func SpatialFeatures(features []Feature, width, height int) [][2]float32 {
	out := make([][2]float32, len(features))
	for i, f := range features {
		out[i] = [2]float32{
			f.CenterX / float32(width) * 100,
			f.CenterY / float32(height) * 100,
		}
	}
	return out
}
