// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

// Test fixtures covering spec.md §8's concrete scenarios: a two-tone
// square, a solid opaque color, a checkerboard, and a lightness gradient.

func twoToneSquare(size int) *RGBAImage {
	img := NewRGBAImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x < size/2 {
				img.Set(x, y, 220, 20, 20, 255) // left half: red
			} else {
				img.Set(x, y, 20, 20, 220, 255) // right half: blue
			}
		}
	}
	return img
}

func solidColorSquare(size int, r, g, b uint8) *RGBAImage {
	img := NewRGBAImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, r, g, b, 255)
		}
	}
	return img
}

func checkerboard(size, cell int) *RGBAImage {
	img := NewRGBAImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.Set(x, y, 240, 240, 240, 255)
			} else {
				img.Set(x, y, 10, 10, 10, 255)
			}
		}
	}
	return img
}

func lightnessGradient(size int) *RGBAImage {
	img := NewRGBAImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(x * 255 / (size - 1))
			img.Set(x, y, v, v, v, 255)
		}
	}
	return img
}

// transparentBorderSquare is an opaque colored square surrounded by fully
// transparent pixels, exercising the alpha-threshold exclusion path.
func transparentBorderSquare(size, margin int, r, g, b uint8) *RGBAImage {
	img := NewRGBAImage(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x < margin || x >= size-margin || y < margin || y >= size-margin {
				img.Set(x, y, 0, 0, 0, 0)
			} else {
				img.Set(x, y, r, g, b, 255)
			}
		}
	}
	return img
}
