package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/cvrguide/pkg/adapters/memory"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/persistence/middleware"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore_Contract(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := middleware.Chain(memory.NewStore(),
		middleware.NewMetricsMiddleware(prometheus.NewRegistry()),
		middleware.NewLoggingMiddleware(logger),
	)
	ports.RunSessionStoreContract(t, store)
	assert.Contains(t, buf.String(), "op=save")
}

func TestMetricsMiddleware_Labels(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := middleware.NewMetricsMiddleware(reg)(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", domain.NewSessionState()))
	_, err := store.Load(ctx, "a")
	require.NoError(t, err)
	_, err = store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	// save/ok, load/ok, load/not_found
	count, err := testutil.GatherAndCount(reg, "cvrguide_store_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.SessionStore) ports.SessionStore {
			calls = append(calls, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, calls, "inner wraps first")
}
