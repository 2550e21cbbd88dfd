// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package kmeans implements k-means++ seeding and weighted Lloyd iteration
// for the two clustering variants used by the pipeline: 3D color-only
// clustering of superpixels, and 5D color+spatial clustering used to split
// one layer into two (spec.md §4.5).
package kmeans

import "math"

// Vec3 is a 3-component color vector (L, a, b).
type Vec3 struct{ L, A, B float32 }

func (v Vec3) sub(o Vec3) Vec3 { return Vec3{v.L - o.L, v.A - o.A, v.B - o.B} }

func (v Vec3) sqNorm() float64 {
	return float64(v.L)*float64(v.L) + float64(v.A)*float64(v.A) + float64(v.B)*float64(v.B)
}

// Params configures 3D color-only clustering.
type Params struct {
	K                   int
	Seed                int64
	HasSeed             bool
	LightnessWeight     float64 // weighting applied only during iteration
	GreenAxisScale      float64
	ConvergenceDistance float64 // default 0.01
	MaxIterations       int     // default 300
}

// Result3D is the output of 3D color clustering.
type Result3D struct {
	Assignments []int32
	Centers     []Vec3 // unweighted (display) colors
	Iterations  int
	Converged   bool
}

// RunColor clusters points in weighted color space but returns unweighted
// centers recomputed from the final assignments, so displayed cluster
// colors are not skewed by the iteration weighting (spec.md §4.5.A).
func RunColor(points []Vec3, p Params) Result3D {
	n := len(points)
	k := clampK(p.K, n)
	rng := newSeededRNG(p.Seed, p.HasSeed)

	weighted := make([]Vec3, n)
	for i, pt := range points {
		wa := pt.A
		if wa < 0 {
			wa *= float32(p.GreenAxisScale)
		}
		weighted[i] = Vec3{pt.L * float32(p.LightnessWeight), wa, pt.B}
	}

	centerIdx := seedPlusPlusVec3(weighted, k, rng)
	centers := make([]Vec3, k)
	for i, idx := range centerIdx {
		centers[i] = weighted[idx]
	}

	assignments := make([]int32, n)
	convergence := nonZero(p.ConvergenceDistance, 0.01)
	maxIter := intNonZero(p.MaxIterations, 300)

	iterations := 0
	converged := false
	for ; iterations < maxIter; iterations++ {
		for i, pt := range weighted {
			assignments[i] = int32(nearestVec3(pt, centers))
		}

		newCenters, totalDelta := recomputeVec3(weighted, assignments, centers)
		centers = newCenters
		if totalDelta < convergence {
			converged = true
			iterations++
			break
		}
	}

	finalCenters, _ := recomputeVec3(points, assignments, make([]Vec3, k))
	return Result3D{Assignments: assignments, Centers: finalCenters, Iterations: iterations, Converged: converged}
}

// Vec5 is one point in the 5D color+spatial space.
type Vec5 struct {
	Color   Vec3
	X, Y    float32
}

// Params5D configures 5D color+spatial clustering.
type Params5D struct {
	K                   int
	Seed                int64
	HasSeed             bool
	ColorWeight         float64
	SpatialWeight       float64
	ConvergenceDistance float64
	MaxIterations       int
}

// Result5D is the output of 5D color+spatial clustering.
type Result5D struct {
	Assignments []int32
	Centers     []Vec5
	Iterations  int
	Converged   bool
}

// RunColorSpatial clusters colors+positions jointly (spec.md §4.5.B).
// Initialization seeds centers with k-means++ over color alone; each
// spatial center is then set to the position of the point whose color is
// closest to its corresponding color center.
func RunColorSpatial(colors []Vec3, spatial [][2]float32, p Params5D) Result5D {
	n := len(colors)
	k := clampK(p.K, n)
	rng := newSeededRNG(p.Seed, p.HasSeed)

	colorCenterIdx := seedPlusPlusVec3(colors, k, rng)
	centers := make([]Vec5, k)
	for i, idx := range colorCenterIdx {
		centers[i] = Vec5{Color: colors[idx], X: spatial[idx][0], Y: spatial[idx][1]}
	}

	assignments := make([]int32, n)
	convergence := nonZero(p.ConvergenceDistance, 0.01)
	maxIter := intNonZero(p.MaxIterations, 300)

	weightedDist := func(c Vec3, x, y float32, center Vec5) float64 {
		dc := c.sub(center.Color).sqNorm()
		dx := float64(x - center.X)
		dy := float64(y - center.Y)
		return p.ColorWeight*dc + p.SpatialWeight*(dx*dx+dy*dy)
	}

	iterations := 0
	converged := false
	for ; iterations < maxIter; iterations++ {
		for i := range colors {
			best, bestDist := 0, math.MaxFloat64
			for ci, c := range centers {
				d := weightedDist(colors[i], spatial[i][0], spatial[i][1], c)
				if d < bestDist {
					bestDist, best = d, ci
				}
			}
			assignments[i] = int32(best)
		}

		newCenters, totalDelta := recomputeVec5(colors, spatial, assignments, centers)
		centers = newCenters
		if totalDelta < convergence {
			converged = true
			iterations++
			break
		}
	}

	return Result5D{Assignments: assignments, Centers: centers, Iterations: iterations, Converged: converged}
}

func nearestVec3(pt Vec3, centers []Vec3) int {
	best, bestDist := 0, math.MaxFloat64
	for i, c := range centers {
		d := pt.sub(c).sqNorm()
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

func recomputeVec3(points []Vec3, assignments []int32, prev []Vec3) ([]Vec3, float64) {
	k := len(prev)
	sums := make([]Vec3, k)
	counts := make([]int, k)
	for i, pt := range points {
		c := assignments[i]
		sums[c].L += pt.L
		sums[c].A += pt.A
		sums[c].B += pt.B
		counts[c]++
	}

	totalDelta := 0.0
	out := make([]Vec3, k)
	for i := range out {
		if counts[i] == 0 {
			out[i] = prev[i]
			continue
		}
		n := float32(counts[i])
		out[i] = Vec3{sums[i].L / n, sums[i].A / n, sums[i].B / n}
		totalDelta += math.Sqrt(out[i].sub(prev[i]).sqNorm())
	}
	return out, totalDelta
}

func recomputeVec5(colors []Vec3, spatial [][2]float32, assignments []int32, prev []Vec5) ([]Vec5, float64) {
	k := len(prev)
	sums := make([]Vec5, k)
	counts := make([]int, k)
	for i, c := range colors {
		ci := assignments[i]
		sums[ci].Color.L += c.L
		sums[ci].Color.A += c.A
		sums[ci].Color.B += c.B
		sums[ci].X += spatial[i][0]
		sums[ci].Y += spatial[i][1]
		counts[ci]++
	}

	totalDelta := 0.0
	out := make([]Vec5, k)
	for i := range out {
		if counts[i] == 0 {
			out[i] = prev[i]
			continue
		}
		n := float32(counts[i])
		out[i] = Vec5{
			Color: Vec3{sums[i].Color.L / n, sums[i].Color.A / n, sums[i].Color.B / n},
			X:     sums[i].X / n,
			Y:     sums[i].Y / n,
		}
		dc := math.Sqrt(out[i].Color.sub(prev[i].Color).sqNorm())
		dx := float64(out[i].X - prev[i].X)
		dy := float64(out[i].Y - prev[i].Y)
		totalDelta += dc + math.Sqrt(dx*dx+dy*dy)
	}
	return out, totalDelta
}

// seedPlusPlusVec3 picks k distinct indices from points via k-means++
// (spec.md §4.5): uniform for the first, then proportional to squared
// distance to the nearest already-chosen center.
func seedPlusPlusVec3(points []Vec3, k int, rng *RNG) []int {
	n := len(points)
	chosen := make([]int, 0, k)
	if n == 0 || k == 0 {
		return chosen
	}

	first := rng.Intn(n)
	chosen = append(chosen, first)

	minDist := make([]float64, n)
	for i, pt := range points {
		minDist[i] = pt.sub(points[first]).sqNorm()
	}

	for len(chosen) < k {
		total := 0.0
		for _, d := range minDist {
			total += d
		}
		var next int
		if total == 0 {
			next = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = n - 1
			for i, d := range minDist {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		}
		chosen = append(chosen, next)
		for i, pt := range points {
			d := pt.sub(points[next]).sqNorm()
			if d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return chosen
}

func newSeededRNG(seed int64, has bool) *RNG {
	if !has {
		seed = 8675309 // DefaultClusteringSeed, duplicated to avoid an import cycle
	}
	return NewRNG(seed)
}

func clampK(k, n int) int {
	if k < 1 {
		k = 1
	}
	if n > 0 && k > n {
		k = n
	}
	return k
}

func nonZero(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func intNonZero(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
