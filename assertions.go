package kmeans1d

import (
	"fmt"
	"math"
	"testing"
)

// AssertOptimalAssignment verifies every a[i] indexes the centroid with
// minimal squared distance to x[i], ties resolved to the lowest index.
func AssertOptimalAssignment(t testing.TB, x, c []float64, a []int) {
	t.Helper()

	if len(a) != len(x) {
		t.Fatalf("assignment length %d, want %d", len(a), len(x))
	}

	var failures []string
	for i, v := range x {
		want := 0
		for j := range c {
			if sq(v-c[j]) < sq(v-c[want]) {
				want = j
			}
		}
		if a[i] != want {
			failures = append(failures, fmt.Sprintf("  x[%d]=%g: assigned %d, nearest %d", i, v, a[i], want))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Non-optimal assignments (%d):\n%v", len(failures), failures)
	}
}

// AssertCentroidMeans verifies that after an update every centroid with
// assigned points equals their mean, and every empty centroid equals x[0].
func AssertCentroidMeans(t testing.TB, x []float64, a []int, c []float64, tol float64) {
	t.Helper()

	sums := make([]float64, len(c))
	counts := make([]int, len(c))
	for i, v := range x {
		sums[a[i]] += v
		counts[a[i]]++
	}

	for j := range c {
		want := x[0]
		if counts[j] > 0 {
			want = sums[j] / float64(counts[j])
		}
		if math.Abs(c[j]-want) > tol*(1+math.Abs(want)) {
			t.Errorf("centroid %d = %g, want %g (count %d)", j, c[j], want, counts[j])
		}
	}
}

// AssertEquivalent verifies two runs produced the same clustering.
func AssertEquivalent(t testing.TB, a, b Result, ca, cb []float64, tol float64) {
	t.Helper()

	cmp := CompareResults(a, b, ca, cb, tol)
	if cmp.AssignmentMismatches > 0 {
		t.Errorf("assignments differ at %d points", cmp.AssignmentMismatches)
	}
	if !cmp.CentroidsClose {
		t.Errorf("centroids differ: max diff %g (tol %g)\n  a=%v\n  b=%v", cmp.MaxCentroidDiff, tol, ca, cb)
	}
	if cmp.SSERelDiff > tol {
		t.Errorf("SSE differs: %g vs %g (rel %g)", a.SSE, b.SSE, cmp.SSERelDiff)
	}
}

// AssertNoRetrograde verifies measured throughput never drops by more than
// slack (a fraction) as the worker count grows.
func AssertNoRetrograde(t testing.TB, results []ScalingResult, slack float64) {
	t.Helper()

	var failures []string
	for i := 1; i < len(results); i++ {
		prev, curr := results[i-1], results[i]
		if curr.Throughput < prev.Throughput*(1-slack) {
			failures = append(failures, fmt.Sprintf(
				"  workers=%d→%d: %.2f → %.2f runs/sec",
				prev.Workers, curr.Workers, prev.Throughput, curr.Throughput))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Retrograde scaling detected:\n%v", failures)
	}
}

// LogAnalysis writes a scaling table and USL fit to the test log.
func LogAnalysis(t testing.TB, results []ScalingResult) {
	t.Helper()

	t.Logf("  workers  runs  runs/sec     speedup  p50")
	speedup := Speedup(results)
	for i, r := range results {
		st := CalculateStatistics(r)
		t.Logf("  %-7d  %-4d  %-11.2f  %-7.2f  %v", r.Workers, r.Runs, r.Throughput, speedup[i], st.P50)
	}

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Logf("  USL fit skipped: %v", err)
		return
	}
	t.Logf("  λ=%.2f α=%.6f β=%.6f R²=%.4f", coeffs.Lambda, coeffs.Alpha, coeffs.Beta, coeffs.RSquared)
}

func sq(v float64) float64 { return v * v }
