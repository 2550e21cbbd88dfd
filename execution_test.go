// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"errors"
	"testing"
)

func smallPipeline() *Pipeline {
	return NewPipeline().
		ConvertColorSpace(DefaultLABScale()).
		Segment(16, DefaultCompactness, 0).
		Cluster(2, WithSeed(DefaultClusteringSeed)).
		ExtractLayers()
}

func TestExecuteTwoToneSquareProducesTwoLayers(t *testing.T) {
	img := twoToneSquare(24)
	exec, err := smallPipeline().Execute(img)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	layers := exec.Layers()
	if len(layers) != 2 {
		t.Fatalf("len(layers) = %d, want 2 for a clean two-tone square", len(layers))
	}
	for i, l := range layers {
		if l.PixelCount == 0 {
			t.Errorf("layer %d has zero pixels", i)
		}
		if l.RGBA.Width != img.Width || l.RGBA.Height != img.Height {
			t.Errorf("layer %d dimensions = %dx%d, want %dx%d", i, l.RGBA.Width, l.RGBA.Height, img.Width, img.Height)
		}
	}
}

func TestExecuteSolidColorProducesOneLayer(t *testing.T) {
	img := solidColorSquare(16, 100, 150, 200)
	exec, err := smallPipeline().Execute(img)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	layers := exec.Layers()
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1 for a solid color image", len(layers))
	}
	if layers[0].PixelCount != 16*16 {
		t.Errorf("PixelCount = %d, want %d", layers[0].PixelCount, 16*16)
	}
}

func TestExecuteOutputTypeIsLayers(t *testing.T) {
	exec, err := smallPipeline().Execute(solidColorSquare(8, 10, 10, 10))
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if exec.OutputType() != TypeLayers {
		t.Errorf("OutputType() = %v, want TypeLayers", exec.OutputType())
	}
}

func TestExecutePropagatesBuilderError(t *testing.T) {
	p := NewPipeline().Cluster(2) // also a builder error (nothing produces superpixelFeatures); p2 is the one executed
	p2 := NewPipeline().ConvertColorSpace(DefaultLABScale()).Cluster(2)
	_ = p

	_, err := p2.Execute(solidColorSquare(4, 1, 1, 1))
	if err == nil {
		t.Fatal("expected Execute to surface the builder-time error")
	}
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != KindIncompatibleDataTypes {
		t.Fatalf("err = %v, want KindIncompatibleDataTypes", err)
	}
}

func TestExecuteIsDeterministicForFixedSeed(t *testing.T) {
	img := checkerboard(20, 4)
	p := smallPipeline()

	a, err := p.Execute(img)
	if err != nil {
		t.Fatalf("first Execute() = %v", err)
	}
	b, err := p.Execute(img)
	if err != nil {
		t.Fatalf("second Execute() = %v", err)
	}

	la, lb := a.Layers(), b.Layers()
	if len(la) != len(lb) {
		t.Fatalf("layer counts differ across runs: %d != %d", len(la), len(lb))
	}
	for i := range la {
		if la[i].PixelCount != lb[i].PixelCount {
			t.Errorf("layer %d PixelCount differs across runs: %d != %d", i, la[i].PixelCount, lb[i].PixelCount)
		}
		if la[i].MeanColor != lb[i].MeanColor {
			t.Errorf("layer %d MeanColor differs across runs: %v != %v", i, la[i].MeanColor, lb[i].MeanColor)
		}
	}
}

func TestExecuteBatchStopsAtFirstError(t *testing.T) {
	good := solidColorSquare(8, 1, 1, 1)
	p := NewPipeline().ConvertColorSpace(DefaultLABScale()).Cluster(2) // builder error, every Execute fails

	_, err := p.ExecuteBatch([]*RGBAImage{good, good})
	if err == nil {
		t.Fatal("expected ExecuteBatch to propagate the builder error")
	}
}

func TestExecuteBatchRunsEveryInput(t *testing.T) {
	p := smallPipeline()
	inputs := []*RGBAImage{
		solidColorSquare(8, 10, 10, 10),
		twoToneSquare(16),
	}
	execs, err := p.ExecuteBatch(inputs)
	if err != nil {
		t.Fatalf("ExecuteBatch() = %v", err)
	}
	if len(execs) != len(inputs) {
		t.Fatalf("len(execs) = %d, want %d", len(execs), len(inputs))
	}
	if len(execs[0].Layers()) != 1 {
		t.Errorf("input 0 (solid color) produced %d layers, want 1", len(execs[0].Layers()))
	}
}

func TestExecuteFromRunsOnlyTheSuffix(t *testing.T) {
	prefix := NewPipeline().
		ConvertColorSpace(DefaultLABScale()).
		Segment(16, DefaultCompactness, 0)

	parent, err := prefix.Execute(twoToneSquare(24))
	if err != nil {
		t.Fatalf("prefix Execute() = %v", err)
	}

	branch := prefix.Copy().Cluster(2, WithSeed(DefaultClusteringSeed)).ExtractLayers()
	child, err := branch.ExecuteFrom(parent)
	if err != nil {
		t.Fatalf("ExecuteFrom() = %v", err)
	}
	if len(child.Layers()) != 2 {
		t.Errorf("len(Layers()) = %d, want 2", len(child.Layers()))
	}
}

func TestExecuteFromRejectsNonPrefix(t *testing.T) {
	prefix := NewPipeline().ConvertColorSpace(DefaultLABScale()).Segment(16, DefaultCompactness, 0)
	parent, err := prefix.Execute(solidColorSquare(8, 1, 1, 1))
	if err != nil {
		t.Fatalf("prefix Execute() = %v", err)
	}

	unrelated := NewPipeline().ConvertColorSpace(LABScale{L: 2, Green: 1}).Segment(16, DefaultCompactness, 0).Cluster(2)
	if _, err := unrelated.ExecuteFrom(parent); err == nil {
		t.Fatal("expected ExecuteFrom to reject a pipeline that does not share parent's prefix")
	}
}

func TestExecuteFromDoesNotMutateParent(t *testing.T) {
	prefix := NewPipeline().ConvertColorSpace(DefaultLABScale()).Segment(16, DefaultCompactness, 0).Cluster(2, WithSeed(1))
	parent, err := prefix.Execute(twoToneSquare(24))
	if err != nil {
		t.Fatalf("prefix Execute() = %v", err)
	}
	before := parent.Context().Assignments().K

	branch := prefix.Copy().AutoMerge(1000, MergeSimple).ExtractLayers() // merge everything into one
	if _, err := branch.ExecuteFrom(parent); err != nil {
		t.Fatalf("ExecuteFrom() = %v", err)
	}

	after := parent.Context().Assignments().K
	if after != before {
		t.Errorf("parent's ClusterAssignments.K changed from %d to %d; merge must copy-on-write", before, after)
	}
}

func TestExecuteBranchesRunsEachBranchIndependently(t *testing.T) {
	prefix := NewPipeline().ConvertColorSpace(DefaultLABScale()).Segment(16, DefaultCompactness, 0)
	parent, err := prefix.Execute(twoToneSquare(24))
	if err != nil {
		t.Fatalf("prefix Execute() = %v", err)
	}

	branches := []*Pipeline{
		prefix.Copy().Cluster(2, WithSeed(1)).ExtractLayers(),
		prefix.Copy().Cluster(3, WithSeed(1)).ExtractLayers(),
	}
	results, err := ExecuteBranches(parent, branches)
	if err != nil {
		t.Fatalf("ExecuteBranches() = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Context().Assignments().K == results[1].Context().Assignments().K {
		t.Skip("both branches happened to converge to the same cluster count; not a failure, just uninformative")
	}
}

func TestExecuteBranchesPropagatesBranchError(t *testing.T) {
	prefix := NewPipeline().ConvertColorSpace(DefaultLABScale()).Segment(16, DefaultCompactness, 0)
	parent, err := prefix.Execute(solidColorSquare(8, 1, 1, 1))
	if err != nil {
		t.Fatalf("prefix Execute() = %v", err)
	}

	badBranch := NewPipeline().ConvertColorSpace(LABScale{L: 3, Green: 1}).Segment(16, DefaultCompactness, 0).Cluster(2)
	_, err = ExecuteBranches(parent, []*Pipeline{badBranch})
	if err == nil {
		t.Fatal("expected ExecuteBranches to propagate a branch's ExecuteFrom error")
	}
}
