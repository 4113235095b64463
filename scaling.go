package kmeans1d

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"
)

// ScalingConfig controls MeasureScaling.
//
// Throughput is measured in complete clustering runs per second at each
// worker count. Levels above GOMAXPROCS measure scheduler overhead rather
// than parallel speedup.
type ScalingConfig struct {
	Duration time.Duration // How long to keep running at each level
	Warmup   time.Duration // Unmeasured runs before each level
	Levels   []int         // Worker counts to test
	MinRuns  int           // Runs per level even if Duration has passed
	Engine   Config        // MaxIter and Eps for every run; Workers is overridden
	Logger   *slog.Logger  // Engine logger; nil discards
}

// DefaultScalingConfig returns sensible defaults.
func DefaultScalingConfig() ScalingConfig {
	return ScalingConfig{
		Duration: 2 * time.Second,
		Warmup:   200 * time.Millisecond,
		Levels:   []int{1, 2, 4, 8},
		MinRuns:  1,
		Engine:   DefaultConfig(),
	}
}

// ScalingResult contains measurements from a single worker count.
type ScalingResult struct {
	Workers    int             // Worker count
	Duration   time.Duration   // Measured wall-clock time
	Runs       int64           // Completed clustering runs
	Throughput float64         // Runs per second
	Latencies  []time.Duration // Per-run latency
	Last       Result          // Result of the final run
	Centroids  []float64       // Centroids produced by the final run
	Tail       TailStats       // Per-iteration durations across measured runs
}

// Statistics contains latency percentiles.
type Statistics struct {
	Mean   time.Duration
	Stddev time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
}

// USLCoefficients holds the Universal Scalability Law fit
// C(N) = λN / (1 + α(N-1) + βN(N-1)).
type USLCoefficients struct {
	Lambda   float64 // λ: runs/sec with one worker
	Alpha    float64 // α: contention
	Beta     float64 // β: coordination
	RSquared float64 // R²: goodness of fit
}

// MeasureScaling clusters x from the initial centroids c at every worker
// count in cfg.Levels. c is never modified; each run starts from a copy.
// ctx bounds the measurement, not individual runs.
func MeasureScaling(ctx context.Context, x, c []float64, cfg ScalingConfig) ([]ScalingResult, error) {
	if len(cfg.Levels) == 0 {
		return nil, fmt.Errorf("no worker levels to measure")
	}
	if err := RequireLaws(ReductionPartial, LawAssociative, LawCommutative); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	minRuns := max(cfg.MinRuns, 1)

	results := make([]ScalingResult, 0, len(cfg.Levels))
	for _, n := range cfg.Levels {
		ecfg := cfg.Engine
		ecfg.Workers = n
		tail := NewTailTracker(tailWindow)
		engine, err := New(ecfg, WithLogger(logger), WithIterationTail(tail))
		if err != nil {
			return nil, fmt.Errorf("failed at workers=%d: %w", n, err)
		}

		r, err := runLevel(ctx, engine, x, c, cfg.Warmup, cfg.Duration, minRuns, tail)
		if err != nil {
			return nil, fmt.Errorf("failed at workers=%d: %w", n, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// tailWindow bounds the per-level iteration samples kept for tail analysis.
const tailWindow = 1 << 14

func runLevel(ctx context.Context, e *Engine, x, c []float64, warmup, d time.Duration, minRuns int, tail *TailTracker) (ScalingResult, error) {
	centroids := make([]float64, len(c))
	assign := make([]int, len(x))

	once := func() (Result, error) {
		copy(centroids, c)
		return e.Run(x, centroids, assign)
	}

	for deadline := time.Now().Add(warmup); time.Now().Before(deadline); {
		if err := ctx.Err(); err != nil {
			return ScalingResult{}, err
		}
		if _, err := once(); err != nil {
			return ScalingResult{}, err
		}
	}

	var (
		latencies []time.Duration
		last      Result
	)
	// Warmup iterations are not part of the tail.
	tail.Reset()
	start := time.Now()
	deadline := start.Add(d)
	for len(latencies) < minRuns || time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return ScalingResult{}, err
		}
		runStart := time.Now()
		res, err := once()
		if err != nil {
			return ScalingResult{}, err
		}
		latencies = append(latencies, time.Since(runStart))
		last = res
	}
	elapsed := time.Since(start)

	last.Assignments = slices.Clone(last.Assignments)
	return ScalingResult{
		Workers:    last.Workers,
		Duration:   elapsed,
		Runs:       int64(len(latencies)),
		Throughput: float64(len(latencies)) / elapsed.Seconds(),
		Latencies:  latencies,
		Last:       last,
		Centroids:  slices.Clone(centroids),
		Tail:       tail.Stats(),
	}, nil
}

// CalculateStatistics computes latency percentiles for one level.
func CalculateStatistics(r ScalingResult) Statistics {
	if len(r.Latencies) == 0 {
		return Statistics{}
	}

	sorted := slices.Clone(r.Latencies)
	slices.Sort(sorted)

	var sum time.Duration
	for _, lat := range sorted {
		sum += lat
	}
	mean := sum / time.Duration(len(sorted))

	var variance float64
	for _, lat := range sorted {
		diff := float64(lat - mean)
		variance += diff * diff
	}

	return Statistics{
		Mean:   mean,
		Stddev: time.Duration(math.Sqrt(variance / float64(len(sorted)))),
		P50:    sorted[len(sorted)*50/100],
		P95:    sorted[len(sorted)*95/100],
		P99:    sorted[len(sorted)*99/100],
	}
}

// Speedup returns throughput at each level relative to the first level.
func Speedup(results []ScalingResult) []float64 {
	out := make([]float64, len(results))
	if len(results) == 0 || results[0].Throughput == 0 {
		return out
	}
	base := results[0].Throughput
	for i, r := range results {
		out[i] = r.Throughput / base
	}
	return out
}

// FitUSL fits λ, α, β to measured throughput.
//
// The USL C(N) = λN / (1 + α(N-1) + βN(N-1)) is not linear in its
// coefficients, but N/C(N) is:
//
//	N/C(N) = 1/λ + (α/λ)(N-1) + (β/λ)N(N-1)
//
// Steps:
//  1. Each level with nonzero throughput becomes a row [1, N-1, N(N-1)]
//     with target y = N/C(N).
//  2. Ordinary least squares gives b = [1/λ, α/λ, β/λ].
//  3. λ = 1/b0, α = b1/b0, β = b2/b0.
//  4. A negative β with positive α means noise bent the curve upward at
//     high N. The fit is redone on the first two columns with β = 0.
//  5. R² is computed on throughput itself, not on the linearized target.
//
// At least 3 levels are required. A singular system (for example every
// level at the same N) falls back to λ = first throughput, α = 0.01.
//
// Interpretation of the result:
//   - α ≈ 0, β ≈ 0: Linear scaling, workers never wait on each other
//   - α > 0, β ≈ 0: Amdahl's law, a serial fraction caps speedup at 1/α
//   - β > 0:        Throughput peaks at sqrt((1-α)/β) and then falls
//
// For this engine α grows with the sequential merge and β with the
// per-iteration barrier and the workers×K accumulator rows.
func FitUSL(results []ScalingResult) (USLCoefficients, error) {
	if len(results) < 3 {
		return USLCoefficients{}, fmt.Errorf("need at least 3 data points, got %d", len(results))
	}

	var rows [][3]float64
	var ys []float64
	for _, r := range results {
		if r.Throughput == 0 {
			continue
		}
		n := float64(r.Workers)
		rows = append(rows, [3]float64{1, n - 1, n * (n - 1)})
		ys = append(ys, n/r.Throughput)
	}

	b, ok := leastSquares(rows, ys, 3)
	if !ok {
		return USLCoefficients{Lambda: results[0].Throughput, Alpha: 0.01}, nil
	}
	lambda, alpha, beta := 1/b[0], b[1]/b[0], b[2]/b[0]

	if beta < 0 && alpha > 0 {
		if b2, ok := leastSquares(rows, ys, 2); ok {
			lambda, alpha, beta = 1/b2[0], b2[1]/b2[0], 0
		}
	}

	var mean float64
	for _, r := range results {
		mean += r.Throughput
	}
	mean /= float64(len(results))

	var ssRes, ssTot float64
	for _, r := range results {
		pred := uslModel(float64(r.Workers), lambda, alpha, beta)
		ssRes += (r.Throughput - pred) * (r.Throughput - pred)
		ssTot += (r.Throughput - mean) * (r.Throughput - mean)
	}
	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return USLCoefficients{Lambda: lambda, Alpha: alpha, Beta: beta, RSquared: rSquared}, nil
}

// leastSquares solves min ||Xb - y|| over the first p columns of rows.
//
// It forms the normal equations (XᵀX)b = Xᵀy as a p×(p+1) augmented matrix
// and reduces it with Gauss-Jordan elimination. Partial pivoting swaps the
// row with the largest remaining entry in each column into place, which
// keeps the N(N-1) column (hundreds at 16 workers) from swamping the
// constant column. A pivot below 1e-12 means XᵀX is singular and the
// second result is false. b0 = 0 is also rejected since λ = 1/b0.
func leastSquares(rows [][3]float64, ys []float64, p int) ([3]float64, bool) {
	var m [3][4]float64
	for i, row := range rows {
		for r := 0; r < p; r++ {
			for c := 0; c < p; c++ {
				m[r][c] += row[r] * row[c]
			}
			m[r][p] += row[r] * ys[i]
		}
	}

	// Gauss-Jordan with partial pivoting.
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return [3]float64{}, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := 0; r < p; r++ {
			if r == col {
				continue
			}
			f := m[r][col] / m[col][col]
			for c := col; c <= p; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	var b [3]float64
	for r := 0; r < p; r++ {
		b[r] = m[r][p] / m[r][r]
	}
	return b, b[0] != 0
}

func uslModel(n, lambda, alpha, beta float64) float64 {
	return (lambda * n) / (1 + alpha*(n-1) + beta*n*(n-1))
}

// PredictThroughput estimates runs/sec at n workers.
func (c USLCoefficients) PredictThroughput(n int) float64 {
	return uslModel(float64(n), c.Lambda, c.Alpha, c.Beta)
}

// Efficiency returns predicted throughput over ideal linear throughput.
func (c USLCoefficients) Efficiency(n int) float64 {
	ideal := c.Lambda * float64(n)
	if ideal == 0 {
		return 0
	}
	return c.PredictThroughput(n) / ideal
}
