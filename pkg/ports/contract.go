package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := &domain.SessionState{
			ActiveWorkflow:     "revalidation",
			StepIndex:          2,
			CompletedWorkflows: []string{domain.BootstrapWorkflowID},
			PendingWorkflow:    "transfer",
		}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.ActiveWorkflow, loaded.ActiveWorkflow)
		assert.Equal(t, state.StepIndex, loaded.StepIndex)
		assert.Equal(t, state.CompletedWorkflows, loaded.CompletedWorkflows)
		assert.Equal(t, state.PendingWorkflow, loaded.PendingWorkflow)
	})

	t.Run("Load is isolated from caller mutation", func(t *testing.T) {
		state := domain.NewSessionState()
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.MarkCompleted("mutated-after-save")
		state.StepIndex = 4

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.StepIndex)
		assert.NotContains(t, loaded.CompletedWorkflows, "mutated-after-save")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSessionState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSessionState())
		_ = store.Save(ctx, id2, domain.NewSessionState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
