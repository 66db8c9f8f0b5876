package errormap

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for failure translation.
type Metrics struct {
	translationsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with the default
// registerer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates a new Metrics instance with a custom
// registerer.
func NewMetricsWithRegisterer(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "gateway"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		translationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "errormap",
				Name:      "translations_total",
				Help:      "Total number of failure translations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	_ = registerer.Register(m.translationsTotal)

	return m
}

// RecordTranslation records a failure translation.
func (m *Metrics) RecordTranslation(operation, outcome string) {
	m.translationsTotal.WithLabelValues(operation, outcome).Inc()
}
