package kmeans1d

import (
	"math"
	"testing"
)

func TestCompareAssignments(t *testing.T) {
	tests := []struct {
		a, b []int
		want int
	}{
		{[]int{0, 1, 1}, []int{0, 1, 1}, 0},
		{[]int{0, 1, 1}, []int{1, 1, 0}, 2},
		{[]int{0, 1, 1}, []int{0}, 2},
		{nil, nil, 0},
	}
	for _, tt := range tests {
		if got := CompareAssignments(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareAssignments(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestCompareCentroids verifies centroids are matched as sorted sets.
func TestCompareCentroids(t *testing.T) {
	ok, diff := CompareCentroids([]float64{11, 2}, []float64{2, 11 + 1e-12}, 1e-9)
	if !ok || math.Abs(diff-1e-12) > 1e-13 {
		t.Errorf("Reordered centroids: ok=%t diff=%g", ok, diff)
	}

	ok, diff = CompareCentroids([]float64{1, 2}, []float64{1, 2.1}, 1e-6)
	if ok || math.Abs(diff-0.1) > 1e-12 {
		t.Errorf("Distinct centroids: ok=%t diff=%g", ok, diff)
	}

	ok, diff = CompareCentroids([]float64{1}, []float64{1, 2}, 1)
	if ok || !math.IsInf(diff, 1) {
		t.Errorf("Length mismatch: ok=%t diff=%g", ok, diff)
	}
}

func TestCompareResults(t *testing.T) {
	a := Result{Assignments: []int{0, 0, 1}, SSE: 4}
	b := Result{Assignments: []int{0, 0, 1}, SSE: 4 + 4e-12}

	cmp := CompareResults(a, b, []float64{1, 5}, []float64{1, 5}, 1e-9)
	if !cmp.Equivalent() || cmp.SSERelDiff >= 1e-11 {
		t.Errorf("Expected equivalent results, got %+v", cmp)
	}

	b.Assignments = []int{0, 1, 1}
	if CompareResults(a, b, []float64{1, 5}, []float64{1, 5}, 1e-9).Equivalent() {
		t.Error("Differing assignments reported as equivalent")
	}
}
