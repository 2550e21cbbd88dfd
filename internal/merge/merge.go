// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package merge implements the two Cluster Merger strategies: a simple
// threshold merge with path compression, and an iterative-weighted merge
// that selects pairs by weighted distance but stops by unweighted distance
// (spec.md §4.6).
package merge

import (
	"math"

	"github.com/gogpu/icondecomp/internal/kmeans"
)

// Result is the outcome of a merge pass: rewritten assignments and the
// surviving (compacted) centers.
type Result struct {
	Assignments []int32
	Centers     []kmeans.Vec3
}

// Simple merges any pair of centers within threshold, transitively via
// path compression, then compacts cluster IDs (spec.md §4.6 "Simple").
func Simple(assignments []int32, centers []kmeans.Vec3, threshold float64) Result {
	k := len(centers)
	mergeMap := make([]int, k)
	for i := range mergeMap {
		mergeMap[i] = i
	}

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if dist(centers[i], centers[j]) < threshold {
				root := find(mergeMap, i)
				mergeMap[find(mergeMap, j)] = root
			}
		}
	}
	for i := range mergeMap {
		mergeMap[i] = find(mergeMap, i)
	}

	return compact(assignments, centers, mergeMap)
}

// IterativeWeighted repeats: compute weighted and unweighted center-center
// distance matrices; merge the pair with the smallest weighted distance;
// stop once the smallest unweighted distance among all remaining pairs
// exceeds threshold. Centers are always recomputed as unweighted means
// over superpixel colors, even though pair selection uses weighted
// distance (spec.md §4.6 "Iterative-weighted", §9 "Preserve this
// behavior").
func IterativeWeighted(assignments []int32, centers []kmeans.Vec3, superpixelColors []kmeans.Vec3, threshold, lightnessWeight, greenAxisScale float64) Result {
	k := len(centers)
	mergeMap := make([]int, k)
	for i := range mergeMap {
		mergeMap[i] = i
	}

	weighted := make([]kmeans.Vec3, k)
	for i, c := range centers {
		a := c.A
		if a < 0 {
			a *= float32(greenAxisScale)
		}
		weighted[i] = kmeans.Vec3{L: c.L * float32(lightnessWeight), A: a, B: c.B}
	}

	alive := make([]bool, k)
	for i := range alive {
		alive[i] = true
	}
	remaining := k

	for merges := 0; merges < k; merges++ {
		bestI, bestJ := -1, -1
		bestWeighted := math.MaxFloat64
		minUnweighted := math.MaxFloat64

		for i := 0; i < k; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < k; j++ {
				if !alive[j] {
					continue
				}
				wd := dist(weighted[i], weighted[j])
				ud := dist(centers[i], centers[j])
				if ud < minUnweighted {
					minUnweighted = ud
				}
				if wd < bestWeighted {
					bestWeighted, bestI, bestJ = wd, i, j
				}
			}
		}

		if bestI < 0 || minUnweighted >= threshold {
			break
		}

		root := find(mergeMap, bestI)
		mergeMap[find(mergeMap, bestJ)] = root
		alive[bestJ] = false
		remaining--

		recomputeFromMembers(mergeMap, superpixelColors, assignments, centers, weighted, lightnessWeight, greenAxisScale, root)

		if remaining <= 1 {
			break
		}
	}

	for i := range mergeMap {
		mergeMap[i] = find(mergeMap, i)
	}
	return compact(assignments, centers, mergeMap)
}

// recomputeFromMembers recomputes the merged center (and its weighted
// shadow) as the unweighted mean over every superpixel currently mapped
// to root through mergeMap ∘ original assignments.
func recomputeFromMembers(mergeMap []int, superpixelColors []kmeans.Vec3, assignments []int32, centers, weighted []kmeans.Vec3, lightnessWeight, greenAxisScale float64, root int) {
	var sum kmeans.Vec3
	count := 0
	for sp, origCluster := range assignments {
		if find(mergeMap, int(origCluster)) == root {
			sum.L += superpixelColors[sp].L
			sum.A += superpixelColors[sp].A
			sum.B += superpixelColors[sp].B
			count++
		}
	}
	if count == 0 {
		return
	}
	n := float32(count)
	centers[root] = kmeans.Vec3{L: sum.L / n, A: sum.A / n, B: sum.B / n}

	a := centers[root].A
	if a < 0 {
		a *= float32(greenAxisScale)
	}
	weighted[root] = kmeans.Vec3{L: centers[root].L * float32(lightnessWeight), A: a, B: centers[root].B}
}

func dist(a, b kmeans.Vec3) float64 {
	dl := float64(a.L - b.L)
	da := float64(a.A - b.A)
	db := float64(a.B - b.B)
	return math.Sqrt(dl*dl + da*da + db*db)
}

func find(mergeMap []int, i int) int {
	for mergeMap[i] != i {
		mergeMap[i] = mergeMap[mergeMap[i]]
		i = mergeMap[i]
	}
	return i
}

// compact rewrites assignments through mergeMap (every index now points
// to its ultimate root) and compacts surviving roots to [0, K').
func compact(assignments []int32, centers []kmeans.Vec3, mergeMap []int) Result {
	newID := make(map[int]int32)
	newCenters := make([]kmeans.Vec3, 0, len(centers))
	for i, root := range mergeMap {
		if root != i {
			continue
		}
		newID[i] = int32(len(newCenters))
		newCenters = append(newCenters, centers[i])
	}

	newAssignments := make([]int32, len(assignments))
	for i, c := range assignments {
		root := mergeMap[c]
		newAssignments[i] = newID[root]
	}

	return Result{Assignments: newAssignments, Centers: newCenters}
}
