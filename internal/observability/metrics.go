package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "countydata"

// Metrics holds the Prometheus collectors for candidate resolution.
type Metrics struct {
	CandidateAttempts *prometheus.CounterVec // labels: outcome={success,status,content_type,parse,transport,disallowed}
	CandidateDuration prometheus.Histogram
	Resolutions       *prometheus.CounterVec // labels: result={resolved,exhausted}
	AttemptsPerLookup prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		CandidateAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_attempts_total",
			Help:      "Candidate URL retrievals by outcome.",
		}, []string{"outcome"}),
		CandidateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_duration_seconds",
			Help:      "Duration of a single candidate retrieval.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Completed resolutions by result.",
		}, []string{"result"}),
		AttemptsPerLookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempts_per_resolution",
			Help:      "Candidates tried before a resolution finished.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16},
		}),
	}
}

// NewMetrics creates the metrics and registers them with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CandidateAttempts,
		m.CandidateDuration,
		m.Resolutions,
		m.AttemptsPerLookup,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as many
// as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveAttempt records one candidate retrieval. Safe on a nil receiver.
func (m *Metrics) ObserveAttempt(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.CandidateAttempts.WithLabelValues(outcome).Inc()
	m.CandidateDuration.Observe(d.Seconds())
}

// ObserveResolution records a finished resolution. Safe on a nil receiver.
func (m *Metrics) ObserveResolution(resolved bool, attempts int) {
	if m == nil {
		return
	}
	result := "exhausted"
	if resolved {
		result = "resolved"
	}
	m.Resolutions.WithLabelValues(result).Inc()
	m.AttemptsPerLookup.Observe(float64(attempts))
}
