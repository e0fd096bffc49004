package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	Turns          *prometheus.CounterVec
	WorkflowEvents *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers the collectors on reg.
// A *prometheus.Registry is also used as the gatherer for Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cvrguide_turns_total",
				Help: "Total number of conversation turns, by mode and intent",
			},
			[]string{"mode", "intent"},
		),
		WorkflowEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cvrguide_workflow_events_total",
				Help: "Workflow transitions: enter, complete, intercept and resume",
			},
			[]string{"event", "workflow"},
		),
		gatherer: prometheus.DefaultGatherer,
	}
	reg.MustRegister(m.Turns, m.WorkflowEvents)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Hooks records every lifecycle event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	workflow := func(ctx context.Context, e *domain.WorkflowEvent) {
		m.WorkflowEvents.WithLabelValues(string(e.Type), e.WorkflowID).Inc()
	}
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			m.Turns.WithLabelValues(string(e.Mode), string(e.Intent)).Inc()
		},
		OnWorkflowEnter:     workflow,
		OnWorkflowComplete:  workflow,
		OnWorkflowIntercept: workflow,
		OnWorkflowResume:    workflow,
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
