package feedback

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricInteractionsTotal      = "feedback_interactions_total"
	MetricInteractionErrors      = "feedback_interaction_errors_total"
	MetricPreferenceUpdatesTotal = "feedback_preference_updates_total"
)

// Metrics contains Prometheus metrics for interaction recording.
// All operations are thread-safe.
type Metrics struct {
	interactions      *prometheus.CounterVec
	errors            prometheus.Counter
	preferenceUpdates prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to
// register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricInteractionsTotal,
			Help: "Total number of recorded interactions by kind",
		}, []string{"kind"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricInteractionErrors,
			Help: "Total number of interaction recording errors",
		}),
		preferenceUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricPreferenceUpdatesTotal,
			Help: "Total number of preference profile updates",
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.interactions,
		m.errors,
		m.preferenceUpdates,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncInteraction increments the interaction counter for a kind.
// Unrecognized kinds collapse into one label to bound cardinality.
func (m *Metrics) IncInteraction(kind string) {
	switch kind {
	case KindView, KindLike, KindComment, KindShare, KindWatchTime:
	default:
		kind = "unknown"
	}
	m.interactions.WithLabelValues(kind).Inc()
}

// IncErrors increments the recording error counter.
func (m *Metrics) IncErrors() {
	m.errors.Inc()
}

// IncPreferenceUpdates increments the profile update counter.
func (m *Metrics) IncPreferenceUpdates() {
	m.preferenceUpdates.Inc()
}
