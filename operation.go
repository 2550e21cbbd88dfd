// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import "context"

// DataType enumerates the types that flow between pipeline operations
// (spec.md §3, §4.1). Operation append-time checking verifies that a
// predecessor's OutputType is compatible with the next operation's
// InputType under compatibleWith.
type DataType int

const (
	// TypeNone is the type of an empty pipeline: no operation has run yet.
	TypeNone DataType = iota
	// TypeRGBA is a *RGBAImage, the raw input or a set of extracted layers.
	TypeRGBA
	// TypeLAB is the (LABImage, AlphaBuffer) pair produced by ConvertColorSpace.
	TypeLAB
	// TypeSuperpixelFeatures is a []SuperpixelFeature, produced by Segment.
	TypeSuperpixelFeatures
	// TypeClusterAssignments is a *ClusterAssignments, produced by Cluster
	// or AutoMerge.
	TypeClusterAssignments
	// TypeLayers is a []Layer, produced by ExtractLayers.
	TypeLayers
)

// String returns a short name for the data type, used in
// InvalidOperationSequence / IncompatibleDataTypes error messages.
func (t DataType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeRGBA:
		return "rgba"
	case TypeLAB:
		return "lab"
	case TypeSuperpixelFeatures:
		return "superpixelFeatures"
	case TypeClusterAssignments:
		return "clusterAssignments"
	case TypeLayers:
		return "layers"
	default:
		return "unknown"
	}
}

// compatibleWith reports whether a producer whose output type is "out" can
// feed a consumer whose input type is "in". The relation is: an operation
// accepts either the exact upstream type it declares, or TypeNone (meaning
// it can start a pipeline by itself, e.g. ConvertColorSpace consuming the
// raw input bound at Execute time rather than a prior operation's output).
func compatibleWith(out, in DataType) bool {
	if in == TypeNone {
		return true
	}
	return out == in
}

// operation is the internal tagged-variant every builder step produces. A
// single executor dispatches on kind rather than using per-type interface
// methods, matching the source's "classes implementing an operation
// abstract type" pattern collapsed onto one dispatcher (spec.md §9).
type operation struct {
	name       string
	inputType  DataType
	outputType DataType
	run        func(ctx context.Context, ec *Context, adapter GPUAdapter) error
}

func (op operation) String() string { return op.name }
