// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package icondecomp decomposes a raster icon into a small set of
// perceptually coherent color layers, suitable for layered icon export.
//
// # Overview
//
// icondecomp is a GPU-accelerated image-segmentation pipeline built around
// four tightly coupled algorithms: perceptual color conversion, SLIC
// superpixel segmentation, k-means++ clustering of superpixels, and
// pixel-accurate layer extraction. These are exposed through a typed,
// reusable Pipeline that composes operations, checks input/output type
// compatibility at build time, and supports branching — reusing the
// result of a prefix (typically SLIC) across many downstream parameter
// variants, executed concurrently.
//
// # Quick Start
//
//	import "github.com/gogpu/icondecomp"
//
//	p := icondecomp.NewPipeline().
//		ConvertColorSpace(icondecomp.LABScale{L: 1, Green: 2}).
//		Segment(1000, 25, 0).
//		Cluster(8, icondecomp.WithSeed(8675309)).
//		AutoMerge(30.0, icondecomp.MergeSimple).
//		ExtractLayers()
//
//	exec, err := p.Execute(rgbaImage)
//	layers := exec.Context().Layers()
//
// # Architecture
//
//   - Public API: Pipeline (builder), Execution, Context, Layer
//   - Algorithm packages: internal/colorspace, internal/slic,
//     internal/feature, internal/kmeans, internal/merge, internal/layer
//   - GPU Resources: gpucore (adapter contract), internal/gpu (wgpu backend)
//
// # Determinism
//
// Given a fixed seed, the full decomposition is reproducible: k-means++
// initialization uses a 48-bit linear-congruential generator (the same
// recurrence as java.util.Random / POSIX drand48) seeded from the caller's
// seed, never the platform PRNG.
package icondecomp
