// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package slic

import "testing"

func twoToneImage(width, height int) (lab []float32, alpha []float32) {
	lab = make([]float32, width*height*3)
	alpha = make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			alpha[idx] = 1
			if x < width/2 {
				lab[idx*3+0], lab[idx*3+1], lab[idx*3+2] = 50, 80, 60 // reddish
			} else {
				lab[idx*3+0], lab[idx*3+1], lab[idx*3+2] = 30, -10, -60 // bluish
			}
		}
	}
	return lab, alpha
}

func TestRunLabelsWithinNumCenters(t *testing.T) {
	lab, alpha := twoToneImage(64, 64)
	res := Run(lab, alpha, 64, 64, Params{NSegments: 64, Compactness: 10, Iterations: 10}, nil)

	for i, l := range res.Labels {
		if alpha[i] <= 0 {
			continue
		}
		if l >= uint32(res.NumCenters) {
			t.Fatalf("label %d at pixel %d exceeds numCenters %d", l, i, res.NumCenters)
		}
	}
}

func TestRunTransparentPixelsStaySentinel(t *testing.T) {
	lab := make([]float32, 16*16*3)
	alpha := make([]float32, 16*16)
	res := Run(lab, alpha, 16, 16, Params{NSegments: 16, Compactness: 10, Iterations: 5}, nil)
	for _, l := range res.Labels {
		if l != Sentinel {
			t.Fatalf("expected all labels to be Sentinel for fully transparent image, got %d", l)
		}
	}
}

func TestRunNSegmentsExceedingPixelCount(t *testing.T) {
	lab, alpha := twoToneImage(4, 4)
	res := Run(lab, alpha, 4, 4, Params{NSegments: 1000, Compactness: 10, Iterations: 3}, nil)
	if res.NumCenters > 16 {
		t.Fatalf("NumCenters = %d, want <= 16 pixels", res.NumCenters)
	}
}
