// Package metrics holds the Prometheus collectors for questionnaire parsing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Parse outcomes used as the outcome label.
const (
	OutcomeSuccess           = "success"
	OutcomeUnsupportedFormat = "unsupported_format"
	OutcomeExtractionFailed  = "extraction_failed"
	OutcomeMissingDependency = "missing_dependency"
	OutcomeTimeout           = "timeout"
	OutcomeError             = "error"
)

// ParseMetrics counts parse calls by format and outcome and times them by format.
// A nil *ParseMetrics records nothing.
type ParseMetrics struct {
	parses   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewParseMetrics creates the collectors and registers them with reg.
func NewParseMetrics(reg prometheus.Registerer) (*ParseMetrics, error) {
	m := &ParseMetrics{
		parses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "questionnaire_parse_total",
				Help: "Total number of questionnaire parse attempts.",
			},
			[]string{"format", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "questionnaire_parse_duration_seconds",
				Help:    "Time spent extracting and segmenting a questionnaire document.",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"format"},
		),
	}

	for _, c := range []prometheus.Collector{m.parses, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one parse of format that ended with outcome after d.
func (m *ParseMetrics) Observe(format, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	m.parses.WithLabelValues(format, outcome).Inc()
	m.duration.WithLabelValues(format).Observe(d.Seconds())
}
