package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// NewMetricsMiddleware records the latency of every store operation in a
// cvrguide_store_operation_duration_seconds{op,result} histogram registered on reg.
func NewMetricsMiddleware(reg prometheus.Registerer) Middleware {
	hist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cvrguide_store_operation_duration_seconds",
			Help:    "Latency of session store operations",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op", "result"},
	)
	reg.MustRegister(hist)

	return func(next ports.SessionStore) ports.SessionStore {
		return &instrumented{next: next, observe: func(op string, start time.Time, err error) {
			hist.WithLabelValues(op, result(err)).Observe(time.Since(start).Seconds())
		}}
	}
}

// NewLoggingMiddleware logs every store operation at debug level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &instrumented{next: next, observe: func(op string, start time.Time, err error) {
			attrs := []any{"op", op, "duration", time.Since(start), "result", result(err)}
			if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				attrs = append(attrs, "error", err)
			}
			logger.Debug("Store operation", attrs...)
		}}
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrSessionNotFound):
		return ResultNotFound
	default:
		return ResultError
	}
}

type instrumented struct {
	next    ports.SessionStore
	observe func(op string, start time.Time, err error)
}

func (m *instrumented) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, state)
	m.observe("save", start, err)
	return err
}

func (m *instrumented) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	start := time.Now()
	state, err := m.next.Load(ctx, sessionID)
	m.observe("load", start, err)
	return state, err
}

func (m *instrumented) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.observe("delete", start, err)
	return err
}

func (m *instrumented) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
