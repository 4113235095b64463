package kmeans1d

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"
)

// TestMeasureScaling_RunsEveryLevel verifies the runner produces one result
// per worker count and that every level clusters identically.
func TestMeasureScaling_RunsEveryLevel(t *testing.T) {
	x, c := gaussianData(1, 20_000, []float64{10, 30, 60, 90}, 2.5)
	orig := append([]float64(nil), c...)

	cfg := DefaultScalingConfig()
	cfg.Duration = 50 * time.Millisecond
	cfg.Warmup = 10 * time.Millisecond
	cfg.Levels = []int{1, 2, 4}

	results, err := MeasureScaling(context.Background(), x, c, cfg)
	if err != nil {
		t.Fatalf("MeasureScaling failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Workers != cfg.Levels[i] {
			t.Errorf("Expected workers=%d, got %d", cfg.Levels[i], r.Workers)
		}
		if r.Runs == 0 || int64(len(r.Latencies)) != r.Runs {
			t.Errorf("workers=%d: runs=%d latencies=%d", r.Workers, r.Runs, len(r.Latencies))
		}
		if r.Throughput <= 0 {
			t.Errorf("workers=%d: throughput %.2f", r.Workers, r.Throughput)
		}
		AssertEquivalent(t, results[0].Last, r.Last, results[0].Centroids, r.Centroids, 1e-9)
	}

	for i := range c {
		if c[i] != orig[i] {
			t.Fatalf("initial centroids modified: %v -> %v", orig, c)
		}
	}

	// Timing on shared machines is noisy, so only a collapse counts.
	AssertNoRetrograde(t, results, 0.9)
	LogAnalysis(t, results)
}

// TestMeasureScaling_ReportsEffectiveWorkers verifies a level above the point
// count reports the clamped worker count that actually ran.
func TestMeasureScaling_ReportsEffectiveWorkers(t *testing.T) {
	x := []float64{1, 2, 3, 10, 11, 12}
	cfg := ScalingConfig{Levels: []int{1, 16}, MinRuns: 1, Engine: DefaultConfig()}

	results, err := MeasureScaling(context.Background(), x, []float64{0, 5}, cfg)
	if err != nil {
		t.Fatalf("MeasureScaling failed: %v", err)
	}

	if results[0].Workers != 1 {
		t.Errorf("Expected workers=1, got %d", results[0].Workers)
	}
	if results[1].Workers != len(x) || results[1].Last.Workers != len(x) {
		t.Errorf("Expected workers=%d for level 16, got %d (run reported %d)",
			len(x), results[1].Workers, results[1].Last.Workers)
	}
}

// failureRecorder captures assertion failures instead of failing the test.
type failureRecorder struct {
	testing.TB
	failures []string
}

func (r *failureRecorder) Helper() {}

func (r *failureRecorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

// TestAssertNoRetrograde verifies drops beyond the slack are reported and
// smaller ones are tolerated.
func TestAssertNoRetrograde(t *testing.T) {
	results := []ScalingResult{
		{Workers: 1, Throughput: 100},
		{Workers: 2, Throughput: 180},
		{Workers: 4, Throughput: 170},
		{Workers: 8, Throughput: 90},
	}

	tests := []struct {
		name    string
		slack   float64
		wantErr bool
	}{
		{"generous slack", 0.6, false},
		{"reports large drop", 0.1, true},
		{"strict", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &failureRecorder{TB: t}
			AssertNoRetrograde(rec, results, tt.slack)

			if got := len(rec.failures) > 0; got != tt.wantErr {
				t.Errorf("slack=%.2f: reported=%t, want %t %v", tt.slack, got, tt.wantErr, rec.failures)
			}
		})
	}

	// 180 -> 170 is within 10%, so only the 4 -> 8 drop is named.
	rec := &failureRecorder{TB: t}
	AssertNoRetrograde(rec, results, 0.1)
	if len(rec.failures) != 1 || !strings.Contains(rec.failures[0], "workers=4→8") ||
		strings.Contains(rec.failures[0], "workers=2→4") {
		t.Errorf("Unexpected failure report: %v", rec.failures)
	}

	t.Logf("✓ Retrograde drop 170 → 90 runs/sec detected")
}

// TestMeasureScaling_MinRuns verifies MinRuns is honoured with a zero duration.
func TestMeasureScaling_MinRuns(t *testing.T) {
	cfg := ScalingConfig{Levels: []int{1, 2}, MinRuns: 3, Engine: DefaultConfig()}

	results, err := MeasureScaling(context.Background(), []float64{1, 2, 3, 10, 11, 12}, []float64{0, 5}, cfg)
	if err != nil {
		t.Fatalf("MeasureScaling failed: %v", err)
	}
	for _, r := range results {
		if r.Runs != 3 {
			t.Errorf("workers=%d: expected 3 runs, got %d", r.Workers, r.Runs)
		}
	}
}

// TestMeasureScaling_Errors verifies invalid input is reported.
func TestMeasureScaling_Errors(t *testing.T) {
	x := []float64{1, 2, 3}
	c := []float64{0}

	if _, err := MeasureScaling(context.Background(), x, c, ScalingConfig{Engine: DefaultConfig()}); err == nil {
		t.Error("Expected error for empty levels")
	}

	cfg := ScalingConfig{Levels: []int{0}, Engine: DefaultConfig()}
	if _, err := MeasureScaling(context.Background(), x, c, cfg); err == nil {
		t.Error("Expected error for zero workers")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg = ScalingConfig{Levels: []int{1}, Duration: time.Second, Engine: DefaultConfig()}
	if _, err := MeasureScaling(ctx, x, c, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestCalculateStatistics verifies percentile calculations.
func TestCalculateStatistics(t *testing.T) {
	r := ScalingResult{
		Workers: 1,
		Runs:    5,
		Latencies: []time.Duration{
			500 * time.Microsecond,
			100 * time.Microsecond,
			300 * time.Microsecond,
			200 * time.Microsecond,
			400 * time.Microsecond,
		},
	}

	stats := CalculateStatistics(r)

	if stats.P50 != 300*time.Microsecond {
		t.Errorf("P50: expected 300µs, got %v", stats.P50)
	}
	if stats.Mean != 300*time.Microsecond {
		t.Errorf("Mean: expected 300µs, got %v", stats.Mean)
	}
	if stats.P99 != 500*time.Microsecond {
		t.Errorf("P99: expected 500µs, got %v", stats.P99)
	}

	if (CalculateStatistics(ScalingResult{}) != Statistics{}) {
		t.Error("Expected zero statistics for no latencies")
	}
}

// TestSpeedup verifies throughput is normalized to the first level.
func TestSpeedup(t *testing.T) {
	got := Speedup([]ScalingResult{
		{Workers: 1, Throughput: 10},
		{Workers: 2, Throughput: 19},
		{Workers: 4, Throughput: 35},
	})
	want := []float64{1, 1.9, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("speedup[%d] = %.3f, want %.3f", i, got[i], want[i])
		}
	}
}

// TestFitUSL_LinearScaling tests the fit with ideal linear data.
func TestFitUSL_LinearScaling(t *testing.T) {
	results := []ScalingResult{
		{Workers: 1, Throughput: 1000},
		{Workers: 2, Throughput: 2000},
		{Workers: 4, Throughput: 4000},
		{Workers: 8, Throughput: 8000},
	}

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("FitUSL failed: %v", err)
	}

	if math.Abs(coeffs.Lambda-1000) > 1e-6 {
		t.Errorf("Expected λ=1000, got %.6f", coeffs.Lambda)
	}
	if math.Abs(coeffs.Alpha) > 1e-9 || math.Abs(coeffs.Beta) > 1e-9 {
		t.Errorf("Expected α=β=0, got α=%.9f β=%.9f", coeffs.Alpha, coeffs.Beta)
	}
	if coeffs.RSquared < 0.9999 {
		t.Errorf("Expected R²≈1, got %.6f", coeffs.RSquared)
	}
}

// TestFitUSL_RecoversCoefficients tests the fit on exact USL curves.
func TestFitUSL_RecoversCoefficients(t *testing.T) {
	lambda, alpha, beta := 50.0, 0.08, 0.002

	var results []ScalingResult
	for _, n := range []int{1, 2, 4, 8, 16} {
		results = append(results, ScalingResult{Workers: n, Throughput: uslModel(float64(n), lambda, alpha, beta)})
	}

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("FitUSL failed: %v", err)
	}

	t.Logf("Coefficients: λ=%.4f, α=%.6f, β=%.6f, R²=%.4f",
		coeffs.Lambda, coeffs.Alpha, coeffs.Beta, coeffs.RSquared)

	if math.Abs(coeffs.Lambda-lambda) > 1e-6 {
		t.Errorf("Expected λ=%.2f, got %.6f", lambda, coeffs.Lambda)
	}
	if math.Abs(coeffs.Alpha-alpha) > 1e-6 {
		t.Errorf("Expected α=%.3f, got %.6f", alpha, coeffs.Alpha)
	}
	if math.Abs(coeffs.Beta-beta) > 1e-6 {
		t.Errorf("Expected β=%.4f, got %.6f", beta, coeffs.Beta)
	}
}

// TestFitUSL_InsufficientData verifies error on too few points.
func TestFitUSL_InsufficientData(t *testing.T) {
	_, err := FitUSL([]ScalingResult{{Workers: 1, Throughput: 10}, {Workers: 2, Throughput: 18}})
	if err == nil {
		t.Error("Expected error for insufficient data")
	}
}
