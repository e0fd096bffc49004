package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cvrguide/pkg/adapters/memory"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryStore_TTL(t *testing.T) {
	store := memory.NewStore(memory.WithTTL(20 * time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short-lived", domain.NewSessionState()))
	_, err := store.Load(ctx, "short-lived")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := store.Load(ctx, "short-lived")
		return err == domain.ErrSessionNotFound
	}, time.Second, 10*time.Millisecond)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
