// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"errors"
	"testing"
)

func TestDecomposeSolidColorProducesOneLayer(t *testing.T) {
	img := solidColorSquare(16, 50, 60, 70)
	layers, err := Decompose(img)
	if err != nil {
		t.Fatalf("Decompose() = %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1", len(layers))
	}
}

func TestDecomposeWithOptionsSortedByPixelCount(t *testing.T) {
	img := transparentBorderSquare(24, 2, 200, 30, 30)
	opts := DefaultDecomposeOptions()
	opts.NumberOfSegments = 16
	opts.NumberOfClusters = 2

	layers, err := DecomposeWithOptions(img, opts)
	if err != nil {
		t.Fatalf("DecomposeWithOptions() = %v", err)
	}
	if len(layers) == 0 {
		t.Fatal("expected at least one layer")
	}
	for i := 1; i < len(layers); i++ {
		if layers[i].PixelCount > layers[i-1].PixelCount {
			t.Errorf("layers not sorted by descending PixelCount at index %d: %d > %d", i, layers[i].PixelCount, layers[i-1].PixelCount)
		}
	}
}

func TestDecomposeWithOptionsAppliesMergeThreshold(t *testing.T) {
	img := twoToneSquare(24)
	opts := DefaultDecomposeOptions()
	opts.NumberOfSegments = 16
	opts.NumberOfClusters = 2
	opts.AutoMergeThreshold = 1000 // large enough to merge everything

	layers, err := DecomposeWithOptions(img, opts)
	if err != nil {
		t.Fatalf("DecomposeWithOptions() = %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1 after an aggressive merge", len(layers))
	}
}

func TestDecomposeWithOptionsZeroMergeThresholdSkipsMerge(t *testing.T) {
	img := twoToneSquare(24)
	opts := DefaultDecomposeOptions()
	opts.NumberOfSegments = 16
	opts.NumberOfClusters = 2
	opts.AutoMergeThreshold = 0

	layers, err := DecomposeWithOptions(img, opts)
	if err != nil {
		t.Fatalf("DecomposeWithOptions() = %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("len(layers) = %d, want 2 with merging disabled", len(layers))
	}
}

func TestDecomposeIsDeterministicForFixedSeed(t *testing.T) {
	img := checkerboard(20, 4)
	opts := DefaultDecomposeOptions()
	opts.NumberOfSegments = 16
	opts.NumberOfClusters = 2

	a, err := DecomposeWithOptions(img, opts)
	if err != nil {
		t.Fatalf("first DecomposeWithOptions() = %v", err)
	}
	b, err := DecomposeWithOptions(img, opts)
	if err != nil {
		t.Fatalf("second DecomposeWithOptions() = %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("layer counts differ across identical runs: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].PixelCount != b[i].PixelCount || a[i].MeanColor != b[i].MeanColor {
			t.Errorf("layer %d differs across identical runs", i)
		}
	}
}

func TestSplitLayerSeparatesTwoTones(t *testing.T) {
	src := Layer{RGBA: twoToneSquare(24), PixelCount: 24 * 24}
	layers, err := SplitLayer(src)
	if err != nil {
		t.Fatalf("SplitLayer() = %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("len(layers) = %d, want 2", len(layers))
	}
	total := layers[0].PixelCount + layers[1].PixelCount
	if total != 24*24 {
		t.Errorf("sum of split PixelCounts = %d, want %d", total, 24*24)
	}
	dist := layers[0].MeanColor.Sub(layers[1].MeanColor).Norm()
	if dist < 10 {
		t.Errorf("split layers have suspiciously close mean colors: distance %v", dist)
	}
}

func TestSplitLayerTooFewVisiblePixels(t *testing.T) {
	img := NewRGBAImage(4, 4) // fully transparent, zero visible pixels
	_, err := SplitLayer(Layer{RGBA: img, PixelCount: 0})
	if err == nil {
		t.Fatal("expected a TooFewVisiblePixels error")
	}
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != KindTooFewVisiblePixels {
		t.Fatalf("err = %v, want KindTooFewVisiblePixels", err)
	}
}

func TestDefaultDecomposeOptionsMatchesSpecDefaults(t *testing.T) {
	opts := DefaultDecomposeOptions()
	if opts.NumberOfSegments != DefaultNumberOfSegments {
		t.Errorf("NumberOfSegments = %v, want %v", opts.NumberOfSegments, DefaultNumberOfSegments)
	}
	if opts.Compactness != DefaultCompactness {
		t.Errorf("Compactness = %v, want %v", opts.Compactness, DefaultCompactness)
	}
	if opts.NumberOfClusters != DefaultNumberOfClusters {
		t.Errorf("NumberOfClusters = %v, want %v", opts.NumberOfClusters, DefaultNumberOfClusters)
	}
	if opts.Seed != DefaultClusteringSeed {
		t.Errorf("Seed = %v, want %v", opts.Seed, DefaultClusteringSeed)
	}
	if opts.AutoMergeThreshold != 0 {
		t.Errorf("AutoMergeThreshold = %v, want 0 (merge disabled by default)", opts.AutoMergeThreshold)
	}
}
