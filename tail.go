package kmeans1d

import (
	"math"
	"slices"
	"sync"
	"time"
)

// TailTracker keeps the most recent latencies in a ring buffer and reports
// how far the tail sits from the median.
//
// Iteration time of the engine is bounded by the slowest worker, since every
// pass ends at a barrier. A P99 far above P50 means some iterations waited on
// a straggling worker.
//
// Example:
//
//	tail := NewTailTracker(4096)
//	e, _ := New(cfg, WithIterationTail(tail))
//	e.Run(x, c, a)
//	if tail.Stats().HeavyTailed {
//	    // reduce workers
//	}
//
// A TailTracker is safe for concurrent use.
type TailTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	next    int
	count   int64
}

// DefaultTailWindow is the window used when NewTailTracker gets a
// non-positive size.
const DefaultTailWindow = 1000

// Tail ratio thresholds for P99/P50.
//
// Interpretation:
//   - Ratio < 3:   Gaussian, workers finish each pass at about the same time
//   - Ratio 3-10:  Mild skew, occasional scheduling delay or GC pause
//   - Ratio > 10:  Power law, some iterations wait on a straggling worker
//   - Ratio > 100: Extreme tail, likely more workers than free CPUs
const (
	NarrowTailRatio = 3.0  // P99/P50 below this looks Gaussian
	HeavyTailRatio  = 10.0 // P99/P50 above this looks power-law
)

// NewTailTracker creates a tracker over the last window samples.
func NewTailTracker(window int) *TailTracker {
	if window <= 0 {
		window = DefaultTailWindow
	}
	return &TailTracker{samples: make([]time.Duration, window)}
}

// Record adds one latency sample, overwriting the oldest once the window is
// full.
func (t *TailTracker) Record(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples[t.next] = d
	t.next = (t.next + 1) % len(t.samples)
	t.count++
}

// Reset discards every sample.
func (t *TailTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.samples)
	t.next = 0
	t.count = 0
}

// TailStats is a snapshot of a TailTracker window.
type TailStats struct {
	Samples     int64 // Total samples recorded, including overwritten ones
	Mean        time.Duration
	P50         time.Duration
	P99         time.Duration
	P999        time.Duration
	Ratio       float64 // P99/P50, 1 when empty
	ParetoIndex float64 // Estimated α of a Pareto tail, 0 when the ratio is ≤ 1 (see Stats)
	HeavyTailed bool    // Ratio above HeavyTailRatio
}

// Gaussian reports whether the window looks free of stragglers.
func (s TailStats) Gaussian() bool { return s.Ratio < NarrowTailRatio }

// Stats returns percentiles over the current window.
//
// ParetoIndex assumes the window follows a Pareto distribution
// P(X > x) = (x/x_min)^(-α). The p-quantile is then x_min·(1-p)^(-1/α), so
//
//	P99/P50 = (0.01/0.50)^(-1/α) = 50^(1/α)  =>  α = ln 50 / ln(P99/P50)
//
// Interpretation:
//   - α > 2: Finite variance, the mean is still meaningful
//   - α ≤ 2: Infinite variance, Mean is dominated by the slowest iterations
//   - α ≈ 1: P99 is 50× P50
func (t *TailTracker) Stats() TailStats {
	t.mu.Lock()
	n := int(min(t.count, int64(len(t.samples))))
	sorted := slices.Clone(t.samples[:n])
	count := t.count
	t.mu.Unlock()

	s := TailStats{Samples: count, Ratio: 1}
	if n == 0 {
		return s
	}
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	s.Mean = sum / time.Duration(n)
	s.P50 = quantile(sorted, 0.50)
	s.P99 = quantile(sorted, 0.99)
	s.P999 = quantile(sorted, 0.999)

	if s.P50 > 0 {
		s.Ratio = float64(s.P99) / float64(s.P50)
	}
	if s.Ratio > 1 {
		s.ParetoIndex = math.Log(0.50/0.01) / math.Log(s.Ratio)
	}
	s.HeavyTailed = s.Ratio > HeavyTailRatio
	return s
}

// quantile returns the nearest-rank value at p from sorted samples.
func quantile(sorted []time.Duration, p float64) time.Duration {
	i := int(float64(len(sorted)-1) * p)
	return sorted[max(min(i, len(sorted)-1), 0)]
}
