// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"

	"github.com/gogpu/icondecomp/internal/layer"
)

// newExtractOperation appends the layer extractor (spec.md §4.7), the
// usual final operation: it maps each superpixel's cluster assignment back
// onto the pixels it covers, then builds one RGBA buffer per surviving
// cluster.
func newExtractOperation() operation {
	return operation{
		name:       "extractLayers",
		inputType:  TypeClusterAssignments,
		outputType: TypeLayers,
		run: func(ctx context.Context, ec *Context, adapter GPUAdapter) error {
			assignments := ec.Assignments()
			labels := ec.Labels()
			rgba := ec.RGBA()
			labImg := ec.LAB()
			features := ec.Features()
			if assignments == nil || labels == nil || rgba == nil || labImg == nil || features == nil {
				return newExecutionFailed("extractLayers: missing upstream buffers, run Segment and Cluster first")
			}

			// Feature extraction omits empty superpixels, so
			// assignments.Assignments[i] corresponds to features[i].ID, not
			// to the raw SLIC label value at index i. Rebuild a label->cluster
			// lookup indexed by raw label before mapping pixels.
			idToCluster := make([]int32, labels.NumCenters)
			for i := range idToCluster {
				idToCluster[i] = -1
			}
			for i, f := range features {
				if f.ID >= 0 && f.ID < len(idToCluster) && i < len(assignments.Assignments) {
					idToCluster[f.ID] = assignments.Assignments[i]
				}
			}

			clusters := make([]int32, len(labels.Labels))
			for i, lbl := range labels.Labels {
				if lbl == SentinelLabel || int(lbl) >= len(idToCluster) {
					clusters[i] = -1
					continue
				}
				clusters[i] = idToCluster[lbl]
			}

			lab := flattenLAB(labImg)
			extracted := layer.Extract(rgba.Pix, clusters, lab, rgba.Width, rgba.Height, assignments.K)

			layers := make([]Layer, len(extracted))
			for i, l := range extracted {
				layers[i] = Layer{
					RGBA:       &RGBAImage{Width: rgba.Width, Height: rgba.Height, Pix: l.RGBA},
					PixelCount: l.PixelCount,
					MeanColor:  LAB{L: l.MeanL, A: l.MeanA, B: l.MeanB},
				}
			}

			pixelClusters := &PixelClusterMap{Width: rgba.Width, Height: rgba.Height, Clusters: clusters}
			ec.SetBuffer(KeyPixelClusters, pixelClusters)
			ec.SetBuffer(KeyLayers, layers)
			ec.SetMeta(MetaLayerCount, len(layers))
			return nil
		},
	}
}
