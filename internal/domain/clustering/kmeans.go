package clustering

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type run struct {
	labels  []int
	inertia float64
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// nearest returns the index of the closest center; ties go to the lower index.
func nearest(p []float64, centers [][]float64) (int, float64) {
	best, bestD := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestD {
			best, bestD = j, d
		}
	}
	return best, bestD
}

// seedPlusPlus picks k initial centers with probability proportional to the
// squared distance from the nearest already chosen center.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(n)]))

	d2 := make([]float64, n)
	for i, p := range points {
		d2[i] = sqDist(p, centers[0])
	}
	for len(centers) < k {
		total := floats.Sum(d2)
		idx := rng.Intn(n)
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range d2 {
				acc += d
				if acc >= target {
					idx = i
					break
				}
			}
		}
		c := clone(points[idx])
		centers = append(centers, c)
		for i, p := range points {
			if d := sqDist(p, c); d < d2[i] {
				d2[i] = d
			}
		}
	}
	return centers
}

// lloyd refines centers until the squared center shift drops to tol or
// maxIter is reached.
func lloyd(ctx context.Context, points [][]float64, centers [][]float64, maxIter int, tol float64) (run, error) {
	n, k, dim := len(points), len(centers), len(points[0])
	labels := make([]int, n)
	dists := make([]float64, n)
	counts := make([]int, k)
	next := make([][]float64, k)
	for j := range next {
		next[j] = make([]float64, dim)
	}

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return run{}, err
		}
		for i, p := range points {
			labels[i], dists[i] = nearest(p, centers)
		}

		for j := range next {
			floats.Scale(0, next[j])
			counts[j] = 0
		}
		for i, p := range points {
			floats.Add(next[labels[i]], p)
			counts[labels[i]]++
		}
		for j := range next {
			if counts[j] > 0 {
				floats.Scale(1/float64(counts[j]), next[j])
				continue
			}
			// Empty cluster: move it onto the point farthest from its centroid.
			far := floats.MaxIdx(dists)
			copy(next[j], points[far])
			dists[far] = 0
		}

		var shift float64
		for j := range centers {
			shift += sqDist(centers[j], next[j])
			copy(centers[j], next[j])
		}
		if shift <= tol {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		labels[i], dists[i] = nearest(p, centers)
		inertia += dists[i]
	}
	return run{labels: labels, inertia: inertia}, nil
}

// absTolerance scales tol by the mean per-feature variance of the data.
func absTolerance(points [][]float64, tol float64) float64 {
	if tol == 0 || len(points) < 2 {
		return tol
	}
	dim := len(points[0])
	col := make([]float64, len(points))
	var sum float64
	for d := 0; d < dim; d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		sum += stat.PopVariance(col, nil)
	}
	return tol * sum / float64(dim)
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
