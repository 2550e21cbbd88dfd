// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import "testing"

func TestExtractTwoClusters(t *testing.T) {
	width, height := 2, 1
	rgba := []uint8{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	lab := []float32{
		50, 80, 60,
		30, -10, -60,
	}
	clusters := []int32{0, 1}

	layers := Extract(rgba, clusters, lab, width, height, 2)
	if len(layers) != 2 {
		t.Fatalf("len(layers) = %d, want 2", len(layers))
	}
	if layers[0].PixelCount != 1 || layers[1].PixelCount != 1 {
		t.Errorf("pixel counts = %d,%d, want 1,1", layers[0].PixelCount, layers[1].PixelCount)
	}
	if layers[0].RGBA[0] != 255 || layers[0].RGBA[4] != 0 {
		t.Errorf("layer 0 should keep pixel 0's color and zero pixel 1")
	}
}

func TestExtractOmitsEmptyLayers(t *testing.T) {
	width, height := 2, 1
	rgba := []uint8{255, 0, 0, 255, 255, 0, 0, 255}
	lab := []float32{50, 0, 0, 50, 0, 0}
	clusters := []int32{0, 0}

	layers := Extract(rgba, clusters, lab, width, height, 3)
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1 (clusters 1,2 are empty)", len(layers))
	}
	if layers[0].PixelCount != 2 {
		t.Errorf("PixelCount = %d, want 2", layers[0].PixelCount)
	}
}

func TestExtractUnassignedPixelsExcluded(t *testing.T) {
	width, height := 2, 1
	rgba := []uint8{255, 0, 0, 255, 0, 255, 0, 255}
	lab := []float32{50, 0, 0, 50, 0, 0}
	clusters := []int32{0, -1}

	layers := Extract(rgba, clusters, lab, width, height, 1)
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1", len(layers))
	}
	if layers[0].PixelCount != 1 {
		t.Errorf("PixelCount = %d, want 1", layers[0].PixelCount)
	}
}
