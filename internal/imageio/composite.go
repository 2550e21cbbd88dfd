// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package imageio handles the boundary between the pipeline and raster
// image data: compositing a transparent background over opaque white
// before color conversion, and decoding an optional grayscale depth map.
package imageio

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// CompositeOverWhite blends an RGBA8 image over an opaque white
// background, so that transparent and partially transparent regions
// become white rather than black before color conversion (spec.md §3,
// §6). pix is row-major, 4 bytes per pixel, straight (non-premultiplied)
// alpha. The returned slice has the same layout with alpha forced to 255.
func CompositeOverWhite(pix []uint8, width, height int) []uint8 {
	rect := image.Rect(0, 0, width, height)
	src := &image.NRGBA{Pix: pix, Stride: width * 4, Rect: rect}
	dst := image.NewNRGBA(rect)

	xdraw.Draw(dst, rect, image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, rect, src, image.Point{}, xdraw.Over)

	return dst.Pix
}

// DecodeDepthMap converts a grayscale image to a dense [0,1] depth buffer,
// linearly mapping the single channel (spec.md §6).
func DecodeDepthMap(gray *image.Gray, width, height int) []float32 {
	out := make([]float32, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x, v := range row {
			out[y*width+x] = float32(v) / 255
		}
	}
	return out
}
