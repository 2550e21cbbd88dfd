// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"

	"github.com/gogpu/icondecomp/internal/kmeans"
	"github.com/gogpu/icondecomp/internal/merge"
)

// newMergeOperation appends a cluster-merge pass (spec.md §4.6). It
// mutates the clusterAssignments buffer in place conceptually, but always
// replaces it with a fresh *ClusterAssignments value so a branch execution
// sharing a parent Context never observes the merge from a sibling branch
// (copy-on-write, spec.md §4.1 "Concurrency contract").
func newMergeOperation(threshold float64, strategy MergeStrategy) operation {
	return operation{
		name:       "autoMerge",
		inputType:  TypeClusterAssignments,
		outputType: TypeClusterAssignments,
		run: func(ctx context.Context, ec *Context, adapter GPUAdapter) error {
			assignments := ec.Assignments()
			features := ec.Features()
			if assignments == nil {
				return newExecutionFailed("autoMerge: missing clusterAssignments buffer, run Cluster first")
			}
			if features == nil {
				return newExecutionFailed("autoMerge: missing superpixelFeatures buffer")
			}

			centers := make([]kmeans.Vec3, len(assignments.Centers3D))
			for i, c := range assignments.Centers3D {
				centers[i] = kmeans.Vec3{L: c.L, A: c.A, B: c.B}
			}
			superpixelColors := make([]kmeans.Vec3, len(features))
			for i, f := range features {
				superpixelColors[i] = kmeans.Vec3{L: f.LABColor.L, A: f.LABColor.A, B: f.LABColor.B}
			}

			var result merge.Result
			switch strategy {
			case MergeIterativeWeighted:
				result = merge.IterativeWeighted(assignments.Assignments, centers, superpixelColors, threshold, DefaultLightnessWeight, 1)
			default:
				result = merge.Simple(assignments.Assignments, centers, threshold)
			}

			newCenters := make([]LAB, len(result.Centers))
			for i, c := range result.Centers {
				newCenters[i] = LAB{L: c.L, A: c.A, B: c.B}
			}

			merged := &ClusterAssignments{
				Assignments: result.Assignments,
				Centers3D:   newCenters,
				K:           len(newCenters),
				Iterations:  assignments.Iterations,
				Converged:   assignments.Converged,
			}
			ec.SetBuffer(KeyClusterAssignments, merged)
			ec.SetMeta(MetaOriginalClusterCount, assignments.K)
			ec.SetMeta(MetaClusterCount, merged.K)
			ec.SetMeta(MetaMergeThreshold, threshold)
			return nil
		},
	}
}
