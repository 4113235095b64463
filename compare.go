package kmeans1d

import (
	"math"
	"slices"
)

// Comparison describes how closely two clusterings of the same data agree.
type Comparison struct {
	AssignmentMismatches int     // Points assigned differently (length difference counts too)
	CentroidsClose       bool    // Sorted centroids agree within tolerance
	MaxCentroidDiff      float64 // Largest absolute difference between sorted centroids
	SSERelDiff           float64 // |sseA - sseB| / max(|sseB|, 1)
}

// Equivalent reports identical assignments and close centroids.
func (c Comparison) Equivalent() bool {
	return c.AssignmentMismatches == 0 && c.CentroidsClose
}

// CompareResults compares two runs and their final centroids. Centroids are
// compared after sorting, so runs that converge to the same set of values
// in a different order still match.
func CompareResults(a, b Result, ca, cb []float64, tol float64) Comparison {
	closeEnough, maxDiff := CompareCentroids(ca, cb, tol)
	return Comparison{
		AssignmentMismatches: CompareAssignments(a.Assignments, b.Assignments),
		CentroidsClose:       closeEnough,
		MaxCentroidDiff:      maxDiff,
		SSERelDiff:           math.Abs(a.SSE-b.SSE) / math.Max(math.Abs(b.SSE), 1),
	}
}

// CompareAssignments counts positions where a and b differ.
func CompareAssignments(a, b []int) int {
	n := min(len(a), len(b))
	mismatches := max(len(a), len(b)) - n
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			mismatches++
		}
	}
	return mismatches
}

// CompareCentroids sorts copies of a and b and checks
// |a[i]-b[i]| <= tol*(1+|b[i]|) for every i.
func CompareCentroids(a, b []float64, tol float64) (bool, float64) {
	if len(a) != len(b) {
		return false, math.Inf(1)
	}
	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)

	ok := true
	var maxDiff float64
	for i := range sa {
		d := math.Abs(sa[i] - sb[i])
		maxDiff = math.Max(maxDiff, d)
		if d > tol*(1+math.Abs(sb[i])) {
			ok = false
		}
	}
	return ok, maxDiff
}
