// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

// Tunable parameter defaults (spec.md §6, reproduced exactly).
const (
	DefaultNumberOfClusters  = 8
	DefaultCompactness       = 25.0
	DefaultNumberOfSegments  = 1000
	DefaultAutoMergeThreshold = 30.0
	DefaultLightnessWeight   = 0.35
	DefaultGreenAxisScale    = 2.0
	DefaultClusteringSeed    = 8675309

	defaultSLICIterations       = 10
	defaultConvergenceDistance  = 0.01
	defaultMaxKMeansIterations  = 300
	visiblePixelThresholdForSplit = 20
)

// MergeStrategy selects a Cluster Merger algorithm (spec.md §4.6).
type MergeStrategy int

const (
	// MergeSimple merges any pair of centers within the threshold,
	// transitively, via path compression.
	MergeSimple MergeStrategy = iota
	// MergeIterativeWeighted repeatedly merges the pair with the smallest
	// weighted distance until the smallest unweighted distance exceeds
	// the threshold.
	MergeIterativeWeighted
)

// LABScale holds the per-channel scaling applied during color conversion
// (spec.md §4.2).
type LABScale struct {
	L     float64 // lightnessScale, default 1.0
	Green float64 // greenAxisScale, applied when a < 0, default 2.0
}

// DefaultLABScale returns the spec's default channel scaling.
func DefaultLABScale() LABScale {
	return LABScale{L: 1.0, Green: DefaultGreenAxisScale}
}

// clusterConfig accumulates the optional arguments to Cluster.
type clusterConfig struct {
	seed        int64
	hasSeed     bool
	depthWeight float64
}

// ClusterOption configures a Cluster append.
type ClusterOption func(*clusterConfig)

// WithSeed fixes the PRNG seed used for k-means++ initialization, making
// the resulting clustering reproducible (spec.md §9).
func WithSeed(seed int64) ClusterOption {
	return func(c *clusterConfig) { c.seed, c.hasSeed = seed, true }
}

// Pipeline is the fluent pipeline builder (spec.md §4.1). Operations are
// appended one at a time; each append checks that the predecessor's
// output type is compatible with the new operation's input type and
// records the first incompatibility encountered, which Execute and its
// variants return as an error without doing any GPU work (spec.md §7:
// "configuration errors are surfaced before any GPU work begins").
//
// Pipeline is itself the handle returned by every append: keep a
// reference after any call to use it as the base for further appends, or
// call Copy to branch from it.
type Pipeline struct {
	ops []operation
	err error
}

// NewPipeline returns an empty pipeline builder.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Copy returns an independent builder with the same operations appended
// so far. Appending to the copy does not affect the receiver, and vice
// versa; this is what lets one Pipeline serve as the shared prefix (e.g.
// through Segment) for many branches that diverge afterward (spec.md
// §4.1).
func (p *Pipeline) Copy() *Pipeline {
	np := &Pipeline{ops: append([]operation(nil), p.ops...), err: p.err}
	return np
}

// outputType returns the data type produced by the last appended
// operation, or TypeNone if the pipeline is empty.
func (p *Pipeline) outputType() DataType {
	if len(p.ops) == 0 {
		return TypeNone
	}
	return p.ops[len(p.ops)-1].outputType
}

// append checks type compatibility and records op, or records the first
// error encountered. Once p.err is set, further appends are no-ops so
// callers can chain through an error and inspect it once at Execute time.
func (p *Pipeline) append(op operation) *Pipeline {
	if p.err != nil {
		return p
	}
	if !compatibleWith(p.outputType(), op.inputType) {
		p.err = newIncompatibleDataTypes(op.inputType, p.outputType())
		return p
	}
	p.ops = append(p.ops, op)
	return p
}

// ConvertColorSpace appends the color-converter operation: Gaussian
// pre-blur, BGRA -> RGB -> XYZ -> LAB, channel scaling (spec.md §4.2). It
// is the usual first operation, consuming the raw input image bound by
// Execute rather than a predecessor's output.
func (p *Pipeline) ConvertColorSpace(scale LABScale) *Pipeline {
	return p.append(newConvertOperation(scale))
}

// Segment appends the SLIC superpixel segmenter (spec.md §4.3).
// depthWeight, if nonzero, requires a depth buffer to have been bound via
// ExecuteWithDepth and folds depth into feature extraction downstream.
func (p *Pipeline) Segment(superpixels int, compactness float64, depthWeight float64) *Pipeline {
	return p.append(newSegmentOperation(superpixels, compactness, depthWeight))
}

// Cluster appends k-means++ clustering of superpixels in 3D color space
// (spec.md §4.5.A). Use WithSeed for reproducible output.
func (p *Pipeline) Cluster(k int, opts ...ClusterOption) *Pipeline {
	cfg := clusterConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return p.append(newClusterOperation(k, cfg))
}

// AutoMerge appends a cluster-merge pass that collapses clusters whose
// centers lie within threshold of each other (spec.md §4.6).
func (p *Pipeline) AutoMerge(threshold float64, strategy MergeStrategy) *Pipeline {
	return p.append(newMergeOperation(threshold, strategy))
}

// ExtractLayers appends the layer extractor (spec.md §4.7), the usual
// final operation.
func (p *Pipeline) ExtractLayers() *Pipeline {
	return p.append(newExtractOperation())
}
