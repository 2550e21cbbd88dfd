// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"
	"testing"
)

func convertedContext(t *testing.T, img *RGBAImage) *Context {
	t.Helper()
	ec := NewContext()
	ec.SetBuffer(KeyInput, img)
	runOp(t, newConvertOperation(DefaultLABScale()), ec)
	return ec
}

func TestSegmentOperationPopulatesLabelsAndFeatures(t *testing.T) {
	ec := convertedContext(t, twoToneSquare(16))
	runOp(t, newSegmentOperation(16, DefaultCompactness, 0), ec)

	labels := ec.Labels()
	if labels == nil {
		t.Fatal("labelsBuffer not set")
	}
	if labels.NumCenters == 0 {
		t.Error("NumCenters = 0, want > 0")
	}

	features := ec.Features()
	if len(features) == 0 {
		t.Fatal("superpixelFeatures buffer is empty")
	}
	for _, f := range features {
		if f.PixelCount == 0 {
			t.Errorf("feature %d has zero pixels though it was not omitted", f.ID)
		}
		if f.ID < 0 || f.ID >= labels.NumCenters {
			t.Errorf("feature ID %d out of range [0, %d)", f.ID, labels.NumCenters)
		}
	}
}

func TestSegmentOperationMissingUpstreamFails(t *testing.T) {
	ec := NewContext()
	op := newSegmentOperation(16, DefaultCompactness, 0)
	if err := op.run(context.Background(), ec, nil); err == nil {
		t.Fatal("expected an error when lab/alpha buffers are missing")
	}
}

func TestSegmentOperationEveryPixelLabeledOrSentinel(t *testing.T) {
	ec := convertedContext(t, transparentBorderSquare(16, 3, 100, 100, 100))
	runOp(t, newSegmentOperation(16, DefaultCompactness, 0), ec)

	labels := ec.Labels()
	for _, lbl := range labels.Labels {
		if lbl != SentinelLabel && int(lbl) >= labels.NumCenters {
			t.Fatalf("label %d out of range [0, %d) and not the sentinel", lbl, labels.NumCenters)
		}
	}
}

func TestFlattenLABRoundTrips(t *testing.T) {
	img := &LABImage{Width: 2, Height: 1, Pix: []LAB{{L: 1, A: 2, B: 3}, {L: 4, A: 5, B: 6}}}
	flat := flattenLAB(img)
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(flat) != len(want) {
		t.Fatalf("len(flat) = %d, want %d", len(flat), len(want))
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Errorf("flat[%d] = %v, want %v", i, flat[i], want[i])
		}
	}
}
