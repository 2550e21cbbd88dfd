// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package slic implements the CPU reference path for SLIC superpixel
// segmentation (spec.md §4.3): grid initialization, iterative 5D k-means
// assignment and center update, and connectivity enforcement. The GPU path
// for the assignment step is internal/gpu/kernels/slic_assign.wgsl; center
// update and connectivity enforcement are always done on the host, since
// they are small O(numCenters) / O(W*H) reductions not worth a dispatch.
package slic

import (
	"math"

	"github.com/gogpu/icondecomp/internal/parallel"
)

// Sentinel marks a pixel excluded from segmentation.
const Sentinel uint32 = 0xFFFFFFFE

// Params configures one SLIC run.
type Params struct {
	NSegments           int
	Compactness         float64
	Iterations          int // default 10 if <= 0
	EnforceConnectivity bool
}

// Center is a SLIC cluster center: spatial position plus LAB color.
type Center struct {
	X, Y    float32
	L, A, B float32
}

// Result is the SLIC output: a dense label map (Sentinel for excluded
// pixels) and the final centers.
type Result struct {
	Labels     []uint32
	NumCenters int
	GridW      int
	GridH      int
	Centers    []Center
}

// Run performs SLIC segmentation. lab is row-major (L,a,b) triples;
// alpha is row-major [0,1] visibility. pool may be nil, in which case
// assignment runs on a single goroutine.
func Run(lab []float32, alpha []float32, width, height int, p Params, pool *parallel.WorkerPool) Result {
	s, gridW, gridH := GridSize(width, height, p.NSegments)
	numCenters := gridW * gridH

	centers := InitGrid(lab, alpha, width, height, s, gridW, gridH)

	labels := make([]uint32, width*height)
	distances := make([]float32, width*height)

	iterations := p.Iterations
	if iterations <= 0 {
		iterations = 10
	}

	for iter := 0; iter < iterations; iter++ {
		for i := range distances {
			distances[i] = math.MaxFloat32
		}
		AssignCPU(lab, alpha, width, height, s, gridW, gridH, centers, labels, distances, p.Compactness, pool)
		UpdateCenters(lab, alpha, width, height, labels, centers, gridW)
	}

	if p.EnforceConnectivity {
		EnforceConnectivity(labels, width, height)
	}

	return Result{Labels: labels, NumCenters: numCenters, GridW: gridW, GridH: gridH, Centers: centers}
}

// GridSize computes SLIC's grid spacing s = floor(sqrt(W*H/nSegments)) and
// the resulting grid dimensions, rounded so gridW*gridH covers the image
// (spec.md §4.3). nSegments is clamped to [1, W*H].
func GridSize(width, height, nSegments int) (s, gridW, gridH int) {
	if nSegments < 1 {
		nSegments = 1
	}
	if nSegments > width*height {
		nSegments = width * height
	}

	s = int(math.Sqrt(float64(width*height) / float64(nSegments)))
	if s < 1 {
		s = 1
	}
	gridW = (width + s - 1) / s
	gridH = (height + s - 1) / s
	if gridW < 1 {
		gridW = 1
	}
	if gridH < 1 {
		gridH = 1
	}
	return s, gridW, gridH
}

func InitGrid(lab []float32, alpha []float32, width, height, s, gridW, gridH int) []Center {
	centers := make([]Center, gridW*gridH)
	for gy := 0; gy < gridH; gy++ {
		for gx := 0; gx < gridW; gx++ {
			cx := gx*s + s/2
			cy := gy*s + s/2
			if cx >= width {
				cx = width - 1
			}
			if cy >= height {
				cy = height - 1
			}
			idx := cy*width + cx
			c := Center{X: float32(cx), Y: float32(cy)}
			if alpha[idx] > 0 {
				c.L, c.A, c.B = lab[idx*3+0], lab[idx*3+1], lab[idx*3+2]
			}
			centers[gy*gridW+gx] = c
		}
	}
	return centers
}

func AssignCPU(lab, alphaBuf []float32, width, height, s, gridW, gridH int, centers []Center, labels []uint32, distances []float32, compactness float64, pool *parallel.WorkerPool) {
	ratio := compactness / float64(s)
	assignRow := func(y int) {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if alphaBuf[idx] <= 0 {
				labels[idx] = Sentinel
				continue
			}
			px, py := float32(x), float32(y)
			pl, pa, pb := lab[idx*3+0], lab[idx*3+1], lab[idx*3+2]

			cgx, cgy := x/s, y/s
			var bestDist = float32(math.MaxFloat32)
			var bestLabel = Sentinel

			for gy := cgy - 1; gy <= cgy+1; gy++ {
				if gy < 0 || gy >= gridH {
					continue
				}
				for gx := cgx - 1; gx <= cgx+1; gx++ {
					if gx < 0 || gx >= gridW {
						continue
					}
					cIdx := gy*gridW + gx
					c := centers[cIdx]

					dl := float64(pl - c.L)
					da := float64(pa - c.A)
					db := float64(pb - c.B)
					dColor := math.Sqrt(dl*dl + da*da + db*db)

					dx := float64(px - c.X)
					dy := float64(py - c.Y)
					dSpatial := math.Sqrt(dx*dx + dy*dy)

					d := math.Sqrt(dColor*dColor + ratio*ratio*dSpatial*dSpatial)
					if float32(d) < bestDist {
						bestDist = float32(d)
						bestLabel = uint32(cIdx)
					}
				}
			}
			labels[idx] = bestLabel
			distances[idx] = bestDist
		}
	}

	if pool == nil {
		for y := 0; y < height; y++ {
			assignRow(y)
		}
		return
	}
	pool.ExecuteRows(height, assignRow)
}

func UpdateCenters(lab, alphaBuf []float32, width, height int, labels []uint32, centers []Center, gridW int) {
	type accum struct {
		sx, sy, sl, sa, sb float64
		count              int
	}
	sums := make([]accum, len(centers))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			lbl := labels[idx]
			if lbl == Sentinel || alphaBuf[idx] <= 0 {
				continue
			}
			a := &sums[lbl]
			a.sx += float64(x)
			a.sy += float64(y)
			a.sl += float64(lab[idx*3+0])
			a.sa += float64(lab[idx*3+1])
			a.sb += float64(lab[idx*3+2])
			a.count++
		}
	}

	for i := range centers {
		if sums[i].count == 0 {
			continue // keep previous values (spec.md §4.3 step 3)
		}
		n := float64(sums[i].count)
		centers[i] = Center{
			X: float32(sums[i].sx / n),
			Y: float32(sums[i].sy / n),
			L: float32(sums[i].sl / n),
			A: float32(sums[i].sa / n),
			B: float32(sums[i].sb / n),
		}
	}
}

// EnforceConnectivity repeatedly relabels isolated pixels (no 4-neighbor
// shares its label) to the majority label among their valid neighbors,
// until stable or a small iteration cap is reached (spec.md §4.3).
func EnforceConnectivity(labels []uint32, width, height int) {
	const maxPasses = 4
	buf := make([]uint32, len(labels))

	for pass := 0; pass < maxPasses; pass++ {
		copy(buf, labels)
		changed := false

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := y*width + x
				lbl := buf[idx]
				if lbl == Sentinel {
					continue
				}

				counts := make(map[uint32]int)
				sameFound := false
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					nlbl := buf[ny*width+nx]
					if nlbl == lbl {
						sameFound = true
						break
					}
					if nlbl != Sentinel {
						counts[nlbl]++
					}
				}
				if sameFound || len(counts) == 0 {
					continue
				}

				var majority uint32
				best := 0
				for l, c := range counts {
					if c > best {
						best, majority = c, l
					}
				}
				labels[idx] = majority
				changed = true
			}
		}

		if !changed {
			break
		}
	}
}
