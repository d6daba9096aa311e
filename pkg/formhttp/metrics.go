package formhttp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "formkit"
	subsystem = "http"
)

// Submit outcomes recorded by Metrics.
const (
	OutcomeSuccess = "success"
	OutcomeBlocked = "blocked"
	OutcomeFailed  = "failed"
)

// Metrics counts form traffic.
type Metrics struct {
	drafts      *prometheus.CounterVec
	fieldEvents *prometheus.CounterVec
	submits     *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		drafts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "drafts_created_total",
				Help:      "Total number of form drafts started",
			},
			[]string{"form"},
		),
		fieldEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "field_events_total",
				Help:      "Total number of field events by type",
			},
			[]string{"form", "event"},
		),
		submits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "submits_total",
				Help:      "Total number of submit attempts by outcome",
			},
			[]string{"form", "outcome"},
		),
	}
}

func (m *Metrics) draftCreated(form string) {
	if m != nil {
		m.drafts.WithLabelValues(form).Inc()
	}
}

func (m *Metrics) fieldEvent(form, event string) {
	if m != nil {
		m.fieldEvents.WithLabelValues(form, event).Inc()
	}
}

func (m *Metrics) submit(form, outcome string) {
	if m != nil {
		m.submits.WithLabelValues(form, outcome).Inc()
	}
}
