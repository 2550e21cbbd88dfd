// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package colorspace implements the CPU reference path for the color
// converter: a 3x3 Gaussian pre-blur followed by sRGB -> linear -> XYZ ->
// LAB conversion with per-channel scaling (spec.md §4.2). The GPU path for
// the same transform is internal/gpu/kernels/convert.wgsl; both must agree
// on the formula to within floating-point tolerance.
package colorspace

import "math"

// AlphaThreshold is the minimum alpha (out of 1.0) for a pixel to be
// treated as visible (spec.md §4.2).
const AlphaThreshold = 10.0 / 255.0

// Params holds the channel scaling applied after conversion.
type Params struct {
	LightnessScale float64
	GreenAxisScale float64
}

// Convert blurs then converts an RGBA8 image (already composited over
// white by internal/imageio for transparent regions) to LAB, returning
// row-major LAB triples and an alpha buffer derived from the image's
// original alpha channel (origAlpha, straight alpha in [0,255]).
//
// lab has length width*height*3 (L, a, b interleaved); alpha has length
// width*height.
func Convert(pix []uint8, origAlpha []uint8, width, height int, p Params) (lab []float32, alpha []float32) {
	blurred := blur3x3(pix, width, height)

	lab = make([]float32, width*height*3)
	alpha = make([]float32, width*height)

	for i := 0; i < width*height; i++ {
		r, g, b := blurred[i*3+0], blurred[i*3+1], blurred[i*3+2]
		l, a, bb := rgbToLAB(r, g, b)

		l *= float32(p.LightnessScale)
		if a < 0 {
			a *= float32(p.GreenAxisScale)
		}
		lab[i*3+0], lab[i*3+1], lab[i*3+2] = l, a, bb

		av := float32(origAlpha[i]) / 255
		if av < AlphaThreshold {
			av = 0
		}
		alpha[i] = av
	}
	return lab, alpha
}

// blur3x3 applies a weighted-box Gaussian approximation (kernel
// [1 2 1; 2 4 2; 1 2 1] / 16) to the RGB channels, clamping at the image
// border by replicating edge pixels. Returns row-major RGB triples
// (alpha is untouched by the blur; it is handled separately in Convert).
func blur3x3(pix []uint8, width, height int) []float32 {
	weights := [3][3]float32{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	const norm = 16

	out := make([]float32, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sr, sg, sb float32
			for ky := -1; ky <= 1; ky++ {
				sy := clamp(y+ky, 0, height-1)
				for kx := -1; kx <= 1; kx++ {
					sx := clamp(x+kx, 0, width-1)
					w := weights[ky+1][kx+1]
					idx := (sy*width + sx) * 4
					sr += w * float32(pix[idx+0])
					sg += w * float32(pix[idx+1])
					sb += w * float32(pix[idx+2])
				}
			}
			oi := (y*width + x) * 3
			out[oi+0] = sr / norm
			out[oi+1] = sg / norm
			out[oi+2] = sb / norm
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RGBToLAB converts one sRGB-encoded [0,255] triple to CIE LAB under the
// D65 reference white, with the same channel scaling Convert applies
// (spec.md §4.2). It is exposed for callers that need a single pixel's LAB
// color outside a full-image Convert pass, such as split-layer's
// standalone per-layer recoloring (spec.md §4.8).
func RGBToLAB(r, g, b uint8, p Params) (l, a, bb float32) {
	l, a, bb = rgbToLAB(float32(r), float32(g), float32(b))
	l *= float32(p.LightnessScale)
	if a < 0 {
		a *= float32(p.GreenAxisScale)
	}
	return l, a, bb
}

// rgbToLAB converts one sRGB-encoded [0,255] triple to CIE LAB under the
// D65 reference white.
func rgbToLAB(r, g, b float32) (l, a, bb float32) {
	rl := srgbToLinear(r / 255)
	gl := srgbToLinear(g / 255)
	bl := srgbToLinear(b / 255)

	// sRGB -> XYZ (D65).
	x := 0.4124564*rl + 0.3575761*gl + 0.1804375*bl
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z := 0.0193339*rl + 0.1191920*gl + 0.9503041*bl

	const (
		xn = 0.95047
		yn = 1.00000
		zn = 1.08883
	)

	fx := labF(x / xn)
	fy := labF(y / yn)
	fz := labF(z / zn)

	l = float32(116*fy - 16)
	a = float32(500 * (fx - fy))
	bb = float32(200 * (fy - fz))
	return l, a, bb
}

func srgbToLinear(c float32) float64 {
	cf := float64(c)
	if cf <= 0.04045 {
		return cf / 12.92
	}
	return math.Pow((cf+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}
