package competition

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRoundFinalizeTotal      = "round_finalize_total"
	MetricRoundFinalizeErrors     = "round_finalize_errors_total"
	MetricRoundFinalizeDuration   = "round_finalize_duration_seconds"
	MetricRoundLastFinalizeVideos = "round_last_finalize_video_count"
)

// Metrics contains Prometheus metrics for round finalization.
// All operations are thread-safe.
type Metrics struct {
	finalizeTotal          prometheus.Counter
	finalizeErrors         prometheus.Counter
	finalizeDuration       prometheus.Histogram
	lastFinalizeVideoCount prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to
// register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		finalizeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRoundFinalizeTotal,
			Help: "Total number of round finalizations",
		}),
		finalizeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRoundFinalizeErrors,
			Help: "Total number of round finalization errors",
		}),
		finalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRoundFinalizeDuration,
			Help:    "Histogram of round finalization duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}),
		lastFinalizeVideoCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRoundLastFinalizeVideos,
			Help: "Number of videos ranked in the last round finalization",
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.finalizeTotal,
		m.finalizeErrors,
		m.finalizeDuration,
		m.lastFinalizeVideoCount,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncFinalizeTotal increments the finalization counter.
func (m *Metrics) IncFinalizeTotal() {
	m.finalizeTotal.Inc()
}

// IncFinalizeErrors increments the finalization error counter.
func (m *Metrics) IncFinalizeErrors() {
	m.finalizeErrors.Inc()
}

// ObserveFinalizeDuration records a finalization duration in seconds.
func (m *Metrics) ObserveFinalizeDuration(seconds float64) {
	m.finalizeDuration.Observe(seconds)
}

// SetLastFinalizeVideoCount sets the ranked-video gauge.
func (m *Metrics) SetLastFinalizeVideoCount(count float64) {
	m.lastFinalizeVideoCount.Set(count)
}
