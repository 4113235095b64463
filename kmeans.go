package kmeans1d

import (
	"log/slog"
	"math"
	"time"
)

// IterationStats describes one pass of the convergence loop.
type IterationStats struct {
	Iteration     int           // 0-based iteration index
	SSE           float64       // Total squared error after assignment
	RelChange     float64       // |sse - prev| / prev
	EmptyClusters int           // Clusters reset to x[0] by the update (0 on the final pass)
	Duration      time.Duration // Assignment plus update time
}

// Result summarizes a clustering run. Centroids are left in the caller's
// slice; Assignments aliases the assignment slice that was filled in.
type Result struct {
	Assignments   []int
	Iterations    int     // Assignment passes executed
	SSE           float64 // Total squared error of the last assignment
	Converged     bool    // Stopped because the relative change fell below Eps
	SSEIncreases  int     // Iterations whose SSE exceeded the previous one
	EmptyClusters int     // Empty-cluster resets across all updates
	Workers       int     // Effective worker count
	Duration      time.Duration
	History       []IterationStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records every run into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithIterationTail records the duration of every iteration into t.
func WithIterationTail(t *TailTracker) Option {
	return func(e *Engine) {
		e.tail = t
	}
}

// Engine runs the assign/update loop with a fixed configuration.
// An Engine holds no per-run state and may be shared between goroutines
// as long as they pass distinct centroid and assignment slices.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	tail    *TailTracker
}

// New validates cfg and returns an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run clusters x starting from the centroids in c. It updates c in place and
// writes the final assignment of x[i] into a[i].
//
// Each iteration assigns every point, compares the squared error with the
// previous iteration and stops once the relative change drops below Eps,
// without a further update. Otherwise centroids are recomputed and the loop
// continues, for at most MaxIter iterations.
func (e *Engine) Run(x, c []float64, a []int) (Result, error) {
	switch {
	case len(x) == 0:
		return Result{}, ErrEmptyPoints
	case len(c) == 0:
		return Result{}, ErrEmptyCentroids
	case len(a) != len(x):
		return Result{}, ErrAssignmentLength
	}

	start := time.Now()
	workers := min(e.cfg.Workers, len(x))
	logger := e.logger.With("n", len(x), "k", len(c), "workers", workers)

	res := Result{
		Assignments: a,
		Workers:     workers,
		History:     make([]IterationStats, 0, min(e.cfg.MaxIter, 64)),
	}

	prev := math.MaxFloat64
	var sse float64
	it := 0
	for ; it < e.cfg.MaxIter; it++ {
		iterStart := time.Now()
		sse = Assign(x, c, a, workers)

		e.checkProgress(logger, it, sse, prev, &res)

		denom := prev
		if !(denom > 0) {
			denom = 1
		}
		rel := math.Abs(sse-prev) / denom
		stats := IterationStats{Iteration: it, SSE: sse, RelChange: rel}

		if rel < e.cfg.Eps {
			res.Converged = true
			stats.Duration = time.Since(iterStart)
			res.History = append(res.History, stats)
			e.observeIteration(stats.Duration)
			logger.Debug("iteration", "iteration", it, "sse", sse, "rel_change", rel)
			it++
			break
		}

		empty := Update(x, a, c, workers)
		if empty > 0 {
			res.EmptyClusters += empty
			e.metrics.addEmptyClusters(empty)
			logger.Warn("empty clusters reset to first point",
				"iteration", it,
				"empty", empty,
				"value", x[0],
			)
		}

		stats.EmptyClusters = empty
		stats.Duration = time.Since(iterStart)
		res.History = append(res.History, stats)
		e.observeIteration(stats.Duration)
		logger.Debug("iteration", "iteration", it, "sse", sse, "rel_change", rel)

		prev = sse
	}

	res.Iterations = it
	res.SSE = sse
	res.Duration = time.Since(start)
	e.metrics.observeRun(res)

	logger.Info("clustering finished",
		"iterations", res.Iterations,
		"sse", res.SSE,
		"converged", res.Converged,
		"duration", res.Duration,
	)
	return res, nil
}

// checkProgress flags an iteration whose SSE rose above the previous one.
// Lloyd's algorithm never increases the error in exact arithmetic, so this
// only fires on rounding noise or a broken update.
func (e *Engine) checkProgress(logger *slog.Logger, it int, sse, prev float64, res *Result) {
	if it == 0 || !(sse > prev) {
		return
	}
	res.SSEIncreases++
	e.metrics.incSSEIncrease()
	logger.Warn("sse increased between iterations",
		"iteration", it,
		"sse", sse,
		"prev_sse", prev,
	)
}

func (e *Engine) observeIteration(d time.Duration) {
	e.metrics.observeIteration(d)
	if e.tail != nil {
		e.tail.Record(d)
	}
}

// Cluster validates cfg, allocates the assignment slice and runs a single
// clustering of x. c is updated in place.
func Cluster(x, c []float64, cfg Config, opts ...Option) (Result, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return Result{}, err
	}
	return e.Run(x, c, make([]int, len(x)))
}
