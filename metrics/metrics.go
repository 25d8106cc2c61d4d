package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Decode outcome label values.
const (
	DecodeOK        = "ok"
	DecodeEmpty     = "empty"
	DecodeMalformed = "malformed"
)

// Metrics records consent decode outcomes and per-query request counts.
// A nil *Metrics is valid and records nothing, which keeps handler tests
// free of registry setup.
type Metrics struct {
	decodes *prometheus.CounterVec
	queries *prometheus.CounterVec
}

// New registers the consent metrics on the given registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tcfprocessor",
			Name:      "consent_decodes_total",
			Help:      "Count of consent string decode attempts, by outcome.",
		}, []string{"outcome"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tcfprocessor",
			Name:      "queries_total",
			Help:      "Count of consent queries served, by query name.",
		}, []string{"query"}),
	}

	registry.MustRegister(m.decodes, m.queries)

	for _, outcome := range []string{DecodeOK, DecodeEmpty, DecodeMalformed} {
		m.decodes.WithLabelValues(outcome)
	}

	return m
}

// RecordDecode counts one consent decode attempt.
func (m *Metrics) RecordDecode(outcome string) {
	if m == nil {
		return
	}
	m.decodes.WithLabelValues(outcome).Inc()
}

// RecordQuery counts one served query.
func (m *Metrics) RecordQuery(query string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(query).Inc()
}
