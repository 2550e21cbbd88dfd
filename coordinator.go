// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"sort"

	"github.com/gogpu/icondecomp/internal/colorspace"
	"github.com/gogpu/icondecomp/internal/kmeans"
	"github.com/gogpu/icondecomp/internal/layer"
)

// DecomposeOptions configures Decompose's full-decomposition flow
// (spec.md §4.8). The zero value is not valid; use DefaultDecomposeOptions
// as a starting point.
type DecomposeOptions struct {
	NumberOfSegments   int
	Compactness        float64
	NumberOfClusters   int
	Seed               int64
	DepthWeight        float64
	Depth              *DepthMap
	AutoMergeThreshold float64 // 0 disables the merge pass
	MergeStrategy      MergeStrategy
	LABScale           LABScale
}

// DefaultDecomposeOptions returns the spec's tunable defaults (spec.md §6):
// numberOfSegments=1000, compactness=25.0, numberOfClusters=8,
// seed=8675309, no merge pass.
func DefaultDecomposeOptions() DecomposeOptions {
	return DecomposeOptions{
		NumberOfSegments: DefaultNumberOfSegments,
		Compactness:      DefaultCompactness,
		NumberOfClusters: DefaultNumberOfClusters,
		Seed:             DefaultClusteringSeed,
		LABScale:         DefaultLABScale(),
	}
}

// Decompose runs the full decomposition flow with default parameters
// (spec.md §4.8): convert, SLIC, extract features, seeded 3D k-means, map
// to pixels, extract layers, sort by pixel count descending.
func Decompose(img *RGBAImage) ([]Layer, error) {
	return DecomposeWithOptions(img, DefaultDecomposeOptions())
}

// DecomposeWithOptions is Decompose with caller-supplied parameters.
func DecomposeWithOptions(img *RGBAImage, opts DecomposeOptions) ([]Layer, error) {
	pipeline := NewPipeline().
		ConvertColorSpace(opts.LABScale).
		Segment(opts.NumberOfSegments, opts.Compactness, opts.DepthWeight).
		Cluster(opts.NumberOfClusters, WithSeed(opts.Seed))

	if opts.AutoMergeThreshold > 0 {
		pipeline = pipeline.AutoMerge(opts.AutoMergeThreshold, opts.MergeStrategy)
	}
	pipeline = pipeline.ExtractLayers()

	var exec *Execution
	var err error
	if opts.Depth != nil {
		exec, err = pipeline.ExecuteWithDepth(img, opts.Depth)
	} else {
		exec, err = pipeline.Execute(img)
	}
	if err != nil {
		return nil, err
	}

	// Rename sequentially: the sorted slice's index is a layer's name.
	layers := append([]Layer(nil), exec.Layers()...)
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].PixelCount > layers[j].PixelCount
	})
	return layers, nil
}

// splitSpatialWeights are the three spatial weights tried in order during
// SplitLayer (spec.md §4.8); colorWeight = 1 - spatialWeight for each.
var splitSpatialWeights = [3]float64{0.3, 0.5, 0.8}

// SplitLayer attempts to split one extracted layer into two, by running 5D
// color+spatial k-means (K=2) at three spatial weights and keeping the
// attempt whose two resulting mean colors are farthest apart (spec.md
// §4.8). Only pixels with alpha > 10/255 in src participate in clustering;
// pixels outside the layer are assigned cluster 0 but stay transparent.
func SplitLayer(src Layer) ([]Layer, error) {
	rgba := src.RGBA
	width, height := rgba.Width, rgba.Height

	type visiblePixel struct {
		index    int
		color    kmeans.Vec3
		position [2]float32
	}
	var visible []visiblePixel
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			_, _, _, a := rgba.At(x, y)
			if float32(a)/255 <= AlphaThreshold {
				continue
			}
			l, aa, b := pixelLAB(rgba, x, y)
			visible = append(visible, visiblePixel{
				index: i,
				color: kmeans.Vec3{L: l, A: aa, B: b},
				position: [2]float32{
					float32(x) / float32(width) * 100,
					float32(y) / float32(height) * 100,
				},
			})
		}
	}

	if len(visible) < visiblePixelThresholdForSplit {
		return nil, newTooFewVisiblePixels(len(visible))
	}

	colors := make([]kmeans.Vec3, len(visible))
	positions := make([][2]float32, len(visible))
	for i, v := range visible {
		colors[i] = v.color
		positions[i] = v.position
	}

	var best []Layer
	var bestDistance float64 = -1

	for _, spatialWeight := range splitSpatialWeights {
		colorWeight := 1 - spatialWeight
		result := kmeans.RunColorSpatial(colors, positions, kmeans.Params5D{
			K:                   2,
			Seed:                DefaultClusteringSeed,
			HasSeed:             true,
			ColorWeight:         colorWeight,
			SpatialWeight:       spatialWeight,
			ConvergenceDistance: defaultConvergenceDistance,
			MaxIterations:       defaultMaxKMeansIterations,
		})

		clusters := make([]int32, width*height)
		for i := range clusters {
			clusters[i] = 0
		}
		for i, v := range visible {
			clusters[v.index] = result.Assignments[i]
		}

		lab := flattenLABFromLABImageless(rgba, width, height)
		extracted := layer.Extract(rgba.Pix, clusters, lab, width, height, 2)
		if len(extracted) != 2 {
			continue
		}

		m0 := LAB{L: extracted[0].MeanL, A: extracted[0].MeanA, B: extracted[0].MeanB}
		m1 := LAB{L: extracted[1].MeanL, A: extracted[1].MeanA, B: extracted[1].MeanB}
		colorDistance := m0.Sub(m1).Norm()

		if colorDistance > bestDistance {
			bestDistance = colorDistance
			best = []Layer{
				{RGBA: &RGBAImage{Width: width, Height: height, Pix: extracted[0].RGBA}, PixelCount: extracted[0].PixelCount, MeanColor: m0},
				{RGBA: &RGBAImage{Width: width, Height: height, Pix: extracted[1].RGBA}, PixelCount: extracted[1].PixelCount, MeanColor: m1},
			}
		}
	}

	if best == nil {
		return nil, newSplitFailed("no spatial-weight attempt produced exactly two non-empty layers")
	}
	return best, nil
}

// pixelLAB recomputes one pixel's scaled LAB color directly from its RGBA
// value, since SplitLayer operates on a standalone Layer with no LAB
// buffer of its own (spec.md §4.8: the split input is the layer's RGBA,
// flattened into "labColor (scaled)", not the original pipeline's LAB
// context).
func pixelLAB(rgba *RGBAImage, x, y int) (l, a, b float32) {
	r, g, bch, _ := rgba.At(x, y)
	return colorspace.RGBToLAB(r, g, bch, colorspace.Params{
		LightnessScale: DefaultLABScale().L,
		GreenAxisScale: DefaultLABScale().Green,
	})
}

// flattenLABFromLABImageless recomputes a full LAB buffer for a standalone
// RGBA image that has no associated LABImage (the split layer's image).
func flattenLABFromLABImageless(rgba *RGBAImage, width, height int) []float32 {
	out := make([]float32, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l, a, b := pixelLAB(rgba, x, y)
			i := y*width + x
			out[i*3+0], out[i*3+1], out[i*3+2] = l, a, b
		}
	}
	return out
}
