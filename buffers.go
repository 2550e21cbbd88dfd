// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import "math"

// SentinelLabel marks pixels excluded from segmentation (fully transparent
// after the alpha threshold). All other labels are < numSuperpixels.
const SentinelLabel uint32 = 0xFFFFFFFE

// AlphaThreshold is the minimum input alpha (out of 1.0) for a pixel to be
// treated as visible. Pixels below this are composited transparent and
// excluded from all downstream per-pixel color statistics (spec.md §4.2,
// §4.7, §4.8). 10/255 matches the spec's literal threshold.
const AlphaThreshold = 10.0 / 255.0

// RGBAImage is a dense W*H RGBA8 raster, row-major, 4 bytes per pixel,
// non-premultiplied. This is the type consumed by ConvertColorSpace and
// produced by ExtractLayers.
type RGBAImage struct {
	Width, Height int
	Pix           []uint8 // len == Width*Height*4
}

// NewRGBAImage allocates a zeroed (fully transparent black) image.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
}

// At returns the RGBA components of the pixel at (x, y).
func (img *RGBAImage) At(x, y int) (r, g, b, a uint8) {
	i := (y*img.Width + x) * 4
	p := img.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Set writes the RGBA components of the pixel at (x, y).
func (img *RGBAImage) Set(x, y int, r, g, b, a uint8) {
	i := (y*img.Width + x) * 4
	p := img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, b, a
}

// LAB is one (L, a, b) color tuple. L is in [0, 100]; a, b are roughly
// in [-128, 128] before channel scaling.
type LAB struct {
	L, A, B float32
}

// Sub returns the componentwise difference c - o.
func (c LAB) Sub(o LAB) LAB {
	return LAB{c.L - o.L, c.A - o.A, c.B - o.B}
}

// Norm returns the Euclidean norm of c, treated as a 3-vector.
func (c LAB) Norm() float64 {
	return math.Sqrt(float64(c.L)*float64(c.L) + float64(c.A)*float64(c.A) + float64(c.B)*float64(c.B))
}

// LABImage is a dense W*H sequence of LAB tuples, row-major.
type LABImage struct {
	Width, Height int
	Pix           []LAB
}

// NewLABImage allocates a zeroed LAB image.
func NewLABImage(width, height int) *LABImage {
	return &LABImage{Width: width, Height: height, Pix: make([]LAB, width*height)}
}

// At returns the LAB tuple for pixel (x, y).
func (img *LABImage) At(x, y int) LAB {
	return img.Pix[y*img.Width+x]
}

// AlphaBuffer is a dense W*H sequence of alpha values in [0, 1].
type AlphaBuffer struct {
	Width, Height int
	Pix           []float32
}

// NewAlphaBuffer allocates a zeroed alpha buffer.
func NewAlphaBuffer(width, height int) *AlphaBuffer {
	return &AlphaBuffer{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At returns the alpha value for pixel (x, y).
func (a *AlphaBuffer) At(x, y int) float32 {
	return a.Pix[y*a.Width+x]
}

// Visible reports whether the pixel at (x, y) is above AlphaThreshold.
func (a *AlphaBuffer) Visible(x, y int) bool {
	return a.Pix[y*a.Width+x] > AlphaThreshold
}

// DepthMap is an optional dense W*H sequence of depth values in [0, 1],
// decoded from a grayscale image supplied alongside the input RGBA.
type DepthMap struct {
	Width, Height int
	Pix           []float32
}

// LabelMap is a dense W*H sequence of superpixel labels produced by SLIC.
// A label equal to SentinelLabel marks an excluded (transparent) pixel;
// all other labels are < NumCenters.
type LabelMap struct {
	Width, Height int
	NumCenters    int
	Labels        []uint32
}

// NewLabelMap allocates a label map filled with SentinelLabel.
func NewLabelMap(width, height int) *LabelMap {
	m := &LabelMap{Width: width, Height: height, Labels: make([]uint32, width*height)}
	for i := range m.Labels {
		m.Labels[i] = SentinelLabel
	}
	return m
}

// SLICCenter is a SLIC cluster center: position plus color.
type SLICCenter struct {
	X, Y    float32
	L, A, B float32
}

// SuperpixelFeature is the per-superpixel aggregate produced by feature
// extraction (spec.md §4.4). Id preserves holes from superpixels with zero
// visible pixels; the output slice is not necessarily dense or sorted by
// index beyond being produced in id order.
type SuperpixelFeature struct {
	ID             int
	LABColor       LAB
	PixelCount     int
	CenterPosition [2]float32 // (x, y) in original pixel coordinates
	AverageDepth   float32
}

// ColorFeatures projects a slice of SuperpixelFeature onto their LAB colors.
func ColorFeatures(features []SuperpixelFeature) []LAB {
	out := make([]LAB, len(features))
	for i, f := range features {
		out[i] = f.LABColor
	}
	return out
}

// SpatialFeatures projects a slice of SuperpixelFeature onto normalized
// spatial coordinates in [0, 100], matching the range of the L channel so
// a unit-weighted 5D distance is meaningful (spec.md §4.4).
func SpatialFeatures(features []SuperpixelFeature, width, height int) [][2]float32 {
	out := make([][2]float32, len(features))
	for i, f := range features {
		out[i] = [2]float32{
			f.CenterPosition[0] / float32(width) * 100,
			f.CenterPosition[1] / float32(height) * 100,
		}
	}
	return out
}

// ClusterAssignments maps superpixel index to cluster ID, one entry per
// superpixel; after successful clustering every value is in [0, K).
type ClusterAssignments struct {
	Assignments []int32
	Centers3D   []LAB        // populated by 3D color clustering
	Centers5D   []KMeansCenter5D // populated by 5D color+spatial clustering
	K           int
	Iterations  int
	Converged   bool
}

// KMeansCenter5D is a k-means center in the 5D color+spatial variant.
type KMeansCenter5D struct {
	Color   LAB
	Spatial [2]float32
}

// PixelClusterMap assigns every pixel to a cluster ID (or remains
// transparent if its SLIC label was the sentinel).
type PixelClusterMap struct {
	Width, Height int
	Clusters      []int32 // -1 marks a transparent (unassigned) pixel
}

// Layer is a per-cluster RGBA image: pixels in the cluster keep their
// original color, all others are fully transparent.
type Layer struct {
	RGBA       *RGBAImage
	PixelCount int
	MeanColor  LAB
}

