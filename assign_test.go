package kmeans1d

import (
	"math"
	"slices"
	"testing"
)

func TestNearest(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		c        []float64
		wantIdx  int
		wantDist float64
	}{
		{"single centroid", 7, []float64{3}, 0, 16},
		{"closest in middle", 5.2, []float64{0, 5, 10}, 1, 0.04000000000000007},
		{"tie goes to lowest index", 5, []float64{3, 7}, 0, 4},
		{"duplicate centroids", 1, []float64{9, 2, 2}, 1, 1},
		{"exact hit", -4, []float64{1, -4}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, d := Nearest(tt.v, tt.c)
			if idx != tt.wantIdx {
				t.Errorf("Nearest(%v) index = %d, want %d", tt.v, idx, tt.wantIdx)
			}
			if math.Abs(d-tt.wantDist) > 1e-12 {
				t.Errorf("Nearest(%v) distance = %v, want %v", tt.v, d, tt.wantDist)
			}
		})
	}
}

// TestAssign_OptimalForEveryWorkerCount verifies every point lands on its
// nearest centroid however the range is split.
func TestAssign_OptimalForEveryWorkerCount(t *testing.T) {
	x, _ := gaussianData(11, 5003, []float64{-20, 0, 7, 30}, 6)
	c := []float64{-18, 1, 8.5, 25, 26}

	for _, workers := range []int{1, 2, 3, 5, 8, 13, 5003, 10_000} {
		a := make([]int, len(x))
		sse := Assign(x, c, a, workers)

		AssertOptimalAssignment(t, x, c, a)
		if want := SSE(x, c, a); math.Abs(want-sse) > 1e-9*want {
			t.Errorf("workers=%d: SSE %v, recomputed %v", workers, sse, want)
		}
	}
}

// TestAssign_SSEIndependentOfWorkerCount verifies the combined partial sums
// agree with the single-worker total.
func TestAssign_SSEIndependentOfWorkerCount(t *testing.T) {
	x, c := gaussianData(5, 100_000, []float64{5, 15, 25, 35, 55, 65, 75, 85}, 2)

	ref := Assign(x, c, make([]int, len(x)), 1)
	for _, workers := range []int{2, 4, 6, 16} {
		got := Assign(x, c, make([]int, len(x)), workers)
		if rel := math.Abs(got-ref) / ref; rel >= 1e-9 {
			t.Errorf("workers=%d: SSE %v differs from %v by %g", workers, got, ref, rel)
		}
	}
}

func TestAssign_TiesResolveToLowestIndex(t *testing.T) {
	x := []float64{5, 5, 5, 0, 10}
	c := []float64{3, 7, 3}
	a := make([]int, len(x))

	sse := Assign(x, c, a, 2)

	if !slices.Equal(a, []int{0, 0, 0, 0, 1}) {
		t.Errorf("Unexpected assignments %v", a)
	}
	if math.Abs(sse-(4+4+4+9+9)) > 1e-12 {
		t.Errorf("SSE = %v, want 30", sse)
	}
}

func TestAssign_SingleCentroid(t *testing.T) {
	x := []float64{1, -3, 8, 2}
	a := []int{9, 9, 9, 9}

	sse := Assign(x, []float64{0}, a, 3)

	if !slices.Equal(a, []int{0, 0, 0, 0}) {
		t.Errorf("Unexpected assignments %v", a)
	}
	if math.Abs(sse-(1+9+64+4)) > 1e-12 {
		t.Errorf("SSE = %v, want 78", sse)
	}
}

// TestAssign_OverwritesStaleAssignments verifies no previous label survives
// a pass.
func TestAssign_OverwritesStaleAssignments(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	a := []int{1, 1, 1, 1}

	Assign(x, []float64{0.5, 2.5}, a, 4)
	if !slices.Equal(a, []int{0, 0, 1, 1}) {
		t.Fatalf("First pass: %v", a)
	}

	Assign(x, []float64{10, 0}, a, 4)
	if !slices.Equal(a, []int{1, 1, 1, 1}) {
		t.Fatalf("Second pass: %v", a)
	}
}

func TestAssign_SSENonNegative(t *testing.T) {
	x, c := gaussianData(9, 1000, []float64{-1e6, 0, 1e6}, 1e3)
	if sse := Assign(x, c, make([]int, len(x)), 4); sse < 0 {
		t.Errorf("Negative SSE %v", sse)
	}
}
