package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricFeedsTotal     = "feed_builds_total"
	MetricFeedDuration   = "feed_build_duration_seconds"
	MetricFeedCandidates = "feed_candidate_count"
)

// Metrics contains Prometheus metrics for feed building.
// All operations are thread-safe.
type Metrics struct {
	feedsTotal     *prometheus.CounterVec
	feedDuration   prometheus.Histogram
	candidateCount prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to
// register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		feedsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricFeedsTotal,
			Help: "Total number of feed builds",
		}, []string{"personalized"}),
		feedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricFeedDuration,
			Help:    "Histogram of feed build duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		candidateCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricFeedCandidates,
			Help:    "Histogram of candidate pool sizes per feed build",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.feedsTotal,
		m.feedDuration,
		m.candidateCount,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncFeedsTotal increments the feed build counter.
func (m *Metrics) IncFeedsTotal(personalized bool) {
	label := "false"
	if personalized {
		label = "true"
	}
	m.feedsTotal.WithLabelValues(label).Inc()
}

// ObserveFeedDuration records a feed build duration in seconds.
func (m *Metrics) ObserveFeedDuration(seconds float64) {
	m.feedDuration.Observe(seconds)
}

// ObserveCandidateCount records the size of a candidate pool.
func (m *Metrics) ObserveCandidateCount(count float64) {
	m.candidateCount.Observe(count)
}
