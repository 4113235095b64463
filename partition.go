package kmeans1d

import "golang.org/x/sync/errgroup"

// span is a half-open index range [lo, hi) owned by exactly one worker.
type span struct {
	lo, hi int
}

// partition splits [0, n) into at most workers contiguous, non-empty spans.
// The first n%workers spans are one element longer than the rest.
func partition(n, workers int) []span {
	if n <= 0 {
		return nil
	}
	workers = max(1, min(workers, n))

	spans := make([]span, workers)
	base, rem := n/workers, n%workers
	lo := 0
	for w := range spans {
		size := base
		if w < rem {
			size++
		}
		spans[w] = span{lo: lo, hi: lo + size}
		lo += size
	}
	return spans
}

// parallelFor runs fn once per span, worker w on spans[w], and returns after
// every worker has finished.
func parallelFor(spans []span, fn func(w int, s span)) {
	if len(spans) == 1 {
		fn(0, spans[0])
		return
	}

	var g errgroup.Group
	for w, s := range spans {
		g.Go(func() error {
			fn(w, s)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
}
