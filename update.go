package kmeans1d

// accumulators holds one row of partial sums and counts per worker,
// flattened as [worker*k + cluster].
type accumulators struct {
	k      int
	sums   []float64
	counts []int
}

func newAccumulators(workers, k int) *accumulators {
	return &accumulators{
		k:      k,
		sums:   make([]float64, workers*k),
		counts: make([]int, workers*k),
	}
}

func (t *accumulators) workers() int {
	if t.k == 0 {
		return 0
	}
	return len(t.counts) / t.k
}

// row returns the slices owned by worker w.
func (t *accumulators) row(w int) ([]float64, []int) {
	lo, hi := w*t.k, (w+1)*t.k
	return t.sums[lo:hi:hi], t.counts[lo:hi:hi]
}

// merge folds every worker's partial for cluster c.
func (t *accumulators) merge(c int) Partial {
	var p Partial
	for w := 0; w < t.workers(); w++ {
		p = MergePartial(p, Partial{Sum: t.sums[w*t.k+c], Count: t.counts[w*t.k+c]})
	}
	return p
}

// Update recomputes every centroid in c as the mean of the points assigned to
// it and returns the number of empty clusters.
//
// Each worker accumulates its range of points into its own accumulator row.
// Once all workers have returned, rows are merged sequentially per cluster.
// A cluster with no points is moved to x[0].
//
// x must be non-empty and every a[i] must lie in [0, len(c)).
func Update(x []float64, a []int, c []float64, workers int) int {
	spans := partition(len(x), workers)
	acc := newAccumulators(len(spans), len(c))

	parallelFor(spans, func(w int, s span) {
		sums, counts := acc.row(w)
		for i := s.lo; i < s.hi; i++ {
			j := a[i]
			sums[j] += x[i]
			counts[j]++
		}
	})

	empty := 0
	for j := range c {
		p := acc.merge(j)
		if p.Count > 0 {
			c[j] = p.Mean()
			continue
		}
		c[j] = x[0]
		empty++
	}
	return empty
}
