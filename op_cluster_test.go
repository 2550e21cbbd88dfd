// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"
	"math"
	"testing"
)

func segmentedContext(t *testing.T, img *RGBAImage, superpixels int) *Context {
	t.Helper()
	ec := convertedContext(t, img)
	runOp(t, newSegmentOperation(superpixels, DefaultCompactness, 0), ec)
	return ec
}

func TestClusterOperationProducesKOrFewerClusters(t *testing.T) {
	ec := segmentedContext(t, twoToneSquare(16), 16)
	runOp(t, newClusterOperation(2, clusterConfig{seed: DefaultClusteringSeed, hasSeed: true}), ec)

	assignments := ec.Assignments()
	if assignments == nil {
		t.Fatal("clusterAssignments buffer not set")
	}
	if assignments.K > 2 {
		t.Errorf("K = %d, want <= 2", assignments.K)
	}
	for _, a := range assignments.Assignments {
		if a < 0 || int(a) >= assignments.K {
			t.Errorf("assignment %d out of range [0, %d)", a, assignments.K)
		}
	}
}

func TestClusterOperationCentersAreMeansOfAssignedPoints(t *testing.T) {
	ec := segmentedContext(t, twoToneSquare(16), 16)
	runOp(t, newClusterOperation(2, clusterConfig{seed: 1, hasSeed: true}), ec)

	features := ec.Features()
	assignments := ec.Assignments()

	sums := make([]LAB, assignments.K)
	counts := make([]int, assignments.K)
	for i, f := range features {
		c := assignments.Assignments[i]
		sums[c].L += f.LABColor.L
		sums[c].A += f.LABColor.A
		sums[c].B += f.LABColor.B
		counts[c]++
	}
	for i, center := range assignments.Centers3D {
		if counts[i] == 0 {
			continue
		}
		n := float32(counts[i])
		wantL := sums[i].L / n
		if math.Abs(float64(center.L-wantL)) > 1e-3 {
			t.Errorf("center %d L = %v, want mean %v", i, center.L, wantL)
		}
	}
}

func TestClusterOperationMissingFeaturesFails(t *testing.T) {
	ec := NewContext()
	op := newClusterOperation(2, clusterConfig{})
	if err := op.run(context.Background(), ec, nil); err == nil {
		t.Fatal("expected an error when superpixelFeatures buffer is missing")
	}
}

func TestClusterOperationRecordsSeedMetadata(t *testing.T) {
	ec := segmentedContext(t, solidColorSquare(8, 5, 5, 5), 8)
	runOp(t, newClusterOperation(1, clusterConfig{seed: 42, hasSeed: true}), ec)

	seed, ok := ec.Meta(MetaClusterSeed)
	if !ok || seed != int64(42) {
		t.Errorf("MetaClusterSeed = %v, %v, want 42, true", seed, ok)
	}
}
