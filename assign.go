package kmeans1d

import "math"

// Nearest returns the index of the centroid closest to v and the squared
// distance to it. Ties resolve to the lowest index.
func Nearest(v float64, c []float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for j, cj := range c {
		diff := v - cj
		d := diff * diff
		if d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist
}

// Assign writes the nearest centroid index of every x[i] into a[i] and
// returns the total squared error.
//
// Points are split into contiguous ranges, one per worker. Each worker reads
// x and c, writes only its own range of a and its own partial error; the
// partials are summed in worker order once all workers have returned.
// len(a) must equal len(x).
func Assign(x, c []float64, a []int, workers int) float64 {
	spans := partition(len(x), workers)
	partial := make([]float64, len(spans))

	parallelFor(spans, func(w int, s span) {
		partial[w] = assignRange(x[s.lo:s.hi], c, a[s.lo:s.hi])
	})

	var sse float64
	for _, p := range partial {
		sse = sumSSE(sse, p)
	}
	return sse
}

func assignRange(x, c []float64, a []int) float64 {
	var sse float64
	for i, v := range x {
		j, d := Nearest(v, c)
		a[i] = j
		sse += d
	}
	return sse
}

// SSE returns the total squared distance of every point to its assigned
// centroid, computed sequentially.
func SSE(x, c []float64, a []int) float64 {
	var sse float64
	for i, v := range x {
		diff := v - c[a[i]]
		sse += diff * diff
	}
	return sse
}
