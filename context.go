// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

// Well-known buffer and metadata keys published in the execution context
// (spec.md §6). Operations read their inputs and write their outputs under
// these names so a branch execution that inherits a parent's context finds
// everything a later operation expects.
const (
	KeyInput              = "input"
	KeyRGBAImage          = "rgbaImage"
	KeyDepthBuffer        = "depthBuffer"
	KeyLABImage           = "labImage"
	KeyLabelsBuffer       = "labelsBuffer"
	KeyAlphaBuffer        = "alphaBuffer"
	KeySuperpixelFeatures = "superpixelFeatures"
	KeyClusterAssignments = "clusterAssignments"
	KeyClusterCenters     = "clusterCenters"
	KeyPixelClusters      = "pixelClusters"
	KeyLayers             = "layers"
)

const (
	MetaWidth                = "width"
	MetaHeight               = "height"
	MetaColorSpace           = "colorSpace"
	MetaLabScale             = "labScale"
	MetaSuperpixelCount      = "superpixelCount"
	MetaCompactness          = "compactness"
	MetaNumSLICCenters       = "numSLICCenters"
	MetaClusterCount         = "clusterCount"
	MetaClusterSeed          = "clusterSeed"
	MetaClusteringIterations = "clusteringIterations"
	MetaClusteringConverged  = "clusteringConverged"
	MetaMergeThreshold       = "mergeThreshold"
	MetaOriginalClusterCount = "originalClusterCount"
	MetaLayerCount           = "layerCount"
)

// Context is the execution context threaded through a pipeline run: a
// string-keyed mapping to typed buffers plus a string-keyed mapping to
// metadata values (spec.md §3). Buffers are created by the operation that
// produces them and are owned by the context thereafter.
//
// A branch execution starts from a shallow copy of its parent's Context
// (see [Pipeline.ExecuteFrom]): both maps are copied, but the buffer
// values themselves are shared references, not deep copies, except where
// an operation must mutate one in place (the merge operation), which
// first replaces its own entry with a private copy (copy-on-write).
type Context struct {
	buffers  map[string]any
	metadata map[string]any
}

// NewContext returns an empty execution context.
func NewContext() *Context {
	return &Context{buffers: make(map[string]any), metadata: make(map[string]any)}
}

// Copy returns a shallow copy: new maps, same buffer/metadata values. This
// is what branch execution starts from; it never mutates the receiver.
func (c *Context) Copy() *Context {
	nc := &Context{
		buffers:  make(map[string]any, len(c.buffers)),
		metadata: make(map[string]any, len(c.metadata)),
	}
	for k, v := range c.buffers {
		nc.buffers[k] = v
	}
	for k, v := range c.metadata {
		nc.metadata[k] = v
	}
	return nc
}

// SetBuffer stores a buffer under key, replacing any prior value.
func (c *Context) SetBuffer(key string, v any) { c.buffers[key] = v }

// Buffer returns the raw buffer stored under key, and whether it was
// present.
func (c *Context) Buffer(key string) (any, bool) {
	v, ok := c.buffers[key]
	return v, ok
}

// SetMeta stores a metadata value under key, replacing any prior value.
func (c *Context) SetMeta(key string, v any) { c.metadata[key] = v }

// Meta returns the raw metadata value stored under key, and whether it was
// present.
func (c *Context) Meta(key string) (any, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// RGBA returns the typed rgbaImage buffer, or nil if absent.
func (c *Context) RGBA() *RGBAImage {
	v, _ := c.Buffer(KeyRGBAImage)
	img, _ := v.(*RGBAImage)
	return img
}

// LAB returns the typed labImage buffer, or nil if absent.
func (c *Context) LAB() *LABImage {
	v, _ := c.Buffer(KeyLABImage)
	img, _ := v.(*LABImage)
	return img
}

// Alpha returns the typed alphaBuffer, or nil if absent.
func (c *Context) Alpha() *AlphaBuffer {
	v, _ := c.Buffer(KeyAlphaBuffer)
	a, _ := v.(*AlphaBuffer)
	return a
}

// Depth returns the typed depthBuffer, or nil if absent.
func (c *Context) Depth() *DepthMap {
	v, _ := c.Buffer(KeyDepthBuffer)
	d, _ := v.(*DepthMap)
	return d
}

// Labels returns the typed labelsBuffer (SLIC label map), or nil if absent.
func (c *Context) Labels() *LabelMap {
	v, _ := c.Buffer(KeyLabelsBuffer)
	m, _ := v.(*LabelMap)
	return m
}

// Features returns the typed superpixelFeatures buffer, or nil if absent.
func (c *Context) Features() []SuperpixelFeature {
	v, _ := c.Buffer(KeySuperpixelFeatures)
	f, _ := v.([]SuperpixelFeature)
	return f
}

// Assignments returns the typed clusterAssignments buffer, or nil if absent.
func (c *Context) Assignments() *ClusterAssignments {
	v, _ := c.Buffer(KeyClusterAssignments)
	a, _ := v.(*ClusterAssignments)
	return a
}

// PixelClusters returns the typed pixelClusters buffer, or nil if absent.
func (c *Context) PixelClusters() *PixelClusterMap {
	v, _ := c.Buffer(KeyPixelClusters)
	m, _ := v.(*PixelClusterMap)
	return m
}

// Layers returns the typed layers buffer, or nil if absent.
func (c *Context) Layers() []Layer {
	v, _ := c.Buffer(KeyLayers)
	l, _ := v.([]Layer)
	return l
}

// requireBuffer fetches a typed buffer or reports ExecutionFailed: under
// the spec's compatibility checking this should never happen in a
// correctly built pipeline, but a malformed context (e.g. hand-built by a
// caller) surfaces it as a run-time error rather than a panic (spec.md
// §7, §9).
func requireBuffer[T any](c *Context, key string) (T, error) {
	var zero T
	v, ok := c.Buffer(key)
	if !ok {
		return zero, newExecutionFailedf("missing required buffer %q", key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, newExecutionFailedf("buffer %q has unexpected type %T", key, v)
	}
	return t, nil
}
