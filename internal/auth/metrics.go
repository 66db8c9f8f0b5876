package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for credential verification.
type Metrics struct {
	verificationsTotal   *prometheus.CounterVec
	verificationDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance registered with the default
// registerer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates a new Metrics instance with a custom
// registerer. Useful for tests that want a private registry.
func NewMetricsWithRegisterer(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "gateway"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "verifications_total",
				Help:      "Total number of token verifications by outcome",
			},
			[]string{"token_type", "outcome"},
		),
		verificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "verification_duration_seconds",
				Help:      "Token verification duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"token_type"},
		),
	}

	// Ignore duplicate registration: descriptors are identical when
	// re-registered in tests.
	_ = registerer.Register(m.verificationsTotal)
	_ = registerer.Register(m.verificationDuration)

	return m
}

// RecordVerification records a verification attempt.
func (m *Metrics) RecordVerification(tokenType, outcome string, duration time.Duration) {
	m.verificationsTotal.WithLabelValues(tokenType, outcome).Inc()
	m.verificationDuration.WithLabelValues(tokenType).Observe(duration.Seconds())
}
