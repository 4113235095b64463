package kmeans1d

import (
	"fmt"
	"math"
)

// Recommendation is a worker count derived from a USL fit.
type Recommendation struct {
	Workers      int     // Recommended worker count
	PeakWorkers  float64 // Theoretical throughput peak, +Inf without coordination cost
	InRetrograde bool    // True if maxWorkers is at or past the peak
	Efficiency   float64 // Predicted efficiency at Workers
	Throughput   float64 // Predicted runs/sec at Workers
	Reason       string
}

// CalculatePeakCapacity returns the worker count where throughput peaks.
//
// Setting dC/dN = 0 for C(N) = λN / (1 + α(N-1) + βN(N-1)) gives
//
//	1 - α - βN² = 0  =>  N_peak = sqrt((1-α)/β)
//
// Past N_peak each extra worker costs more in coordination than it adds in
// parallel work, so throughput falls (retrograde scaling).
//
// Special cases:
//   - β ≤ 0: No coordination penalty, returns +Inf
//   - α ≥ 1: Fully serialized, returns 0
func CalculatePeakCapacity(alpha, beta float64) float64 {
	if beta <= 0 {
		return math.Inf(1)
	}
	if alpha >= 1 {
		return 0
	}
	return math.Sqrt((1 - alpha) / beta)
}

// IsRetrograde reports whether n workers is at or past the throughput peak.
//
// In the retrograde zone dC/dN ≤ 0: removing workers makes a run faster.
// Never retrograde when β ≤ 0.
func IsRetrograde(n int, alpha, beta float64) bool {
	peak := CalculatePeakCapacity(alpha, beta)
	if math.IsInf(peak, 1) {
		return false
	}
	return float64(n) >= peak
}

// RecommendWorkers picks the largest worker count up to maxWorkers that
// does not pass the throughput peak and keeps predicted efficiency at or
// above minEfficiency. A non-positive minEfficiency disables that check.
//
// Efficiency is C(N) / (λN), the share of ideal linear speedup retained:
//   - 1.0:       Perfect scaling
//   - 0.7 - 0.9: Good scaling, the barrier and merge cost little
//   - < 0.5:     More than half of every added worker is lost to overhead
//
// The search starts at min(maxWorkers, floor(N_peak)) and walks down until
// the efficiency floor is met, stopping at 1.
func RecommendWorkers(c USLCoefficients, maxWorkers int, minEfficiency float64) Recommendation {
	maxWorkers = max(maxWorkers, 1)
	peak := CalculatePeakCapacity(c.Alpha, c.Beta)

	limit := maxWorkers
	reason := fmt.Sprintf("throughput still rising at %d workers", maxWorkers)
	if !math.IsInf(peak, 1) && peak < float64(maxWorkers) {
		limit = max(int(math.Floor(peak)), 1)
		reason = fmt.Sprintf("throughput peaks near %.1f workers", peak)
	}

	n := limit
	if minEfficiency > 0 {
		for n > 1 && c.Efficiency(n) < minEfficiency {
			n--
		}
		if n < limit {
			reason = fmt.Sprintf("efficiency falls below %.0f%% above %d workers", minEfficiency*100, n)
		}
	}

	return Recommendation{
		Workers:      n,
		PeakWorkers:  peak,
		InRetrograde: IsRetrograde(maxWorkers, c.Alpha, c.Beta),
		Efficiency:   c.Efficiency(n),
		Throughput:   c.PredictThroughput(n),
		Reason:       reason,
	}
}
