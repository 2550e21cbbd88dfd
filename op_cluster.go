// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"

	"github.com/gogpu/icondecomp/internal/kmeans"
)

// newClusterOperation appends k-means++ clustering of superpixels in 3D
// color space (spec.md §4.5.A). There is no GPU kernel for this stage
// (spec.md §5 notes only convert and SLIC assignment are dispatched); it
// always runs on the host.
func newClusterOperation(k int, cfg clusterConfig) operation {
	return operation{
		name:       "cluster",
		inputType:  TypeSuperpixelFeatures,
		outputType: TypeClusterAssignments,
		run: func(ctx context.Context, ec *Context, adapter GPUAdapter) error {
			features := ec.Features()
			if features == nil {
				return newExecutionFailed("cluster: missing superpixelFeatures buffer, run Segment first")
			}

			points := make([]kmeans.Vec3, len(features))
			for i, f := range features {
				points[i] = kmeans.Vec3{L: f.LABColor.L, A: f.LABColor.A, B: f.LABColor.B}
			}

			params := kmeans.Params{
				K:                   k,
				Seed:                cfg.seed,
				HasSeed:             cfg.hasSeed,
				LightnessWeight:     DefaultLightnessWeight,
				GreenAxisScale:      1, // a < 0 was already scaled by ConvertColorSpace
				ConvergenceDistance: defaultConvergenceDistance,
				MaxIterations:       defaultMaxKMeansIterations,
			}
			result := kmeans.RunColor(points, params)

			centers := make([]LAB, len(result.Centers))
			for i, c := range result.Centers {
				centers[i] = LAB{L: c.L, A: c.A, B: c.B}
			}

			assignments := &ClusterAssignments{
				Assignments: result.Assignments,
				Centers3D:   centers,
				K:           len(centers),
				Iterations:  result.Iterations,
				Converged:   result.Converged,
			}
			ec.SetBuffer(KeyClusterAssignments, assignments)
			ec.SetMeta(MetaClusterCount, assignments.K)
			if cfg.hasSeed {
				ec.SetMeta(MetaClusterSeed, cfg.seed)
			}
			ec.SetMeta(MetaClusteringIterations, result.Iterations)
			ec.SetMeta(MetaClusteringConverged, result.Converged)
			return nil
		},
	}
}
