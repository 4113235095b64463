package kmeans1d

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes clustering runs as Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs              *prometheus.CounterVec
	iterations        prometheus.Counter
	sse               prometheus.Gauge
	iterationDuration prometheus.Histogram
	emptyClusters     prometheus.Counter
	sseIncreases      prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kmeans1d_runs_total",
			Help: "Clustering runs by outcome",
		}, []string{"result"}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Name: "kmeans1d_iterations_total",
			Help: "Assignment passes executed across all runs",
		}),
		sse: f.NewGauge(prometheus.GaugeOpts{
			Name: "kmeans1d_sse",
			Help: "Total squared error of the last finished run",
		}),
		iterationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kmeans1d_iteration_duration_seconds",
			Help:    "Wall-clock duration of one assign+update iteration",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
		emptyClusters: f.NewCounter(prometheus.CounterOpts{
			Name: "kmeans1d_empty_clusters_total",
			Help: "Clusters reset to the first point because nothing was assigned to them",
		}),
		sseIncreases: f.NewCounter(prometheus.CounterOpts{
			Name: "kmeans1d_sse_increases_total",
			Help: "Iterations whose squared error exceeded the previous iteration",
		}),
	}
}

func (m *Metrics) observeIteration(d time.Duration) {
	if m == nil {
		return
	}
	m.iterations.Inc()
	m.iterationDuration.Observe(d.Seconds())
}

func (m *Metrics) addEmptyClusters(n int) {
	if m == nil || n == 0 {
		return
	}
	m.emptyClusters.Add(float64(n))
}

func (m *Metrics) incSSEIncrease() {
	if m == nil {
		return
	}
	m.sseIncreases.Inc()
}

func (m *Metrics) observeRun(r Result) {
	if m == nil {
		return
	}
	outcome := "exhausted"
	if r.Converged {
		outcome = "converged"
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.sse.Set(r.SSE)
}
