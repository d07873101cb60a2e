package metrics

import "github.com/prometheus/client_golang/prometheus"

// TranslationMetrics holds Prometheus metrics for command translation calls.
type TranslationMetrics struct {
	TranslationsTotal   *prometheus.CounterVec
	TranslationDuration prometheus.Histogram
}

// NewTranslationMetrics creates and registers translation metrics on the given registry.
// The outcome label distinguishes successes from the failure kinds
// (generation_unavailable, no_textual_output, malformed_payload).
func NewTranslationMetrics(reg prometheus.Registerer) *TranslationMetrics {
	m := &TranslationMetrics{
		TranslationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "requests_total",
			Help:      "Total number of command translation attempts by outcome.",
		}, []string{"outcome"}),
		TranslationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "duration_seconds",
			Help:      "Duration of command translation calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	reg.MustRegister(m.TranslationsTotal, m.TranslationDuration)
	return m
}
