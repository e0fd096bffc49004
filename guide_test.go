package cvrguide_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/pkg/adapters/memory"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...cvrguide.Option) *cvrguide.Engine {
	t.Helper()
	eng, err := cvrguide.New(opts...)
	require.NoError(t, err)
	return eng
}

func send(t *testing.T, eng *cvrguide.Engine, sessionID string, msgs ...string) string {
	t.Helper()
	var reply string
	for _, m := range msgs {
		var err error
		reply, err = eng.HandleMessage(context.Background(), sessionID, m)
		require.NoError(t, err, "message %q", m)
	}
	return reply
}

func TestEngine_FullJourney(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	reply := send(t, eng, "s1", "Hi")
	assert.True(t, strings.HasPrefix(reply, "**Step 1:** First, let's access the INEC CVR Portal."))
	assert.Contains(t, reply, "https://cvr.inecnigeria.org/Public/getStarted")

	reply = send(t, eng, "s1", "YES", "yes", "yes", "yes", "  Yes  ")
	assert.Contains(t, reply, "**Which service would you like to proceed with?**")

	reply = send(t, eng, "s1", "I need to Transfer my PVC")
	assert.Contains(t, reply, "🔍 **Important Notice**")

	state, err := eng.Inspect(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "revalidation", state.ActiveWorkflow)
	assert.Equal(t, "transfer", state.PendingWorkflow)
	assert.Equal(t, domain.ModeConcrete, eng.Mode(state))

	reply = send(t, eng, "s1", "yes", "yes", "yes")
	assert.Contains(t, reply, "🔄 **Now proceeding with your original request: Transfer of Polling Unit Guide**")

	reply = send(t, eng, "s1", "yes", "yes", "yes", "yes")
	assert.Contains(t, reply, "You've completed all steps for Transfer of Polling Unit Guide")

	state, err = eng.Inspect(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"universal-signup", "revalidation", "transfer"}, state.CompletedWorkflows)
	assert.Equal(t, domain.SelectionWorkflowID, state.ActiveWorkflow)
}

func TestEngine_ResetSession(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(t, cvrguide.WithStore(store))
	ctx := context.Background()

	send(t, eng, "s1", "yes", "yes")
	require.NoError(t, eng.ResetSession(ctx, "s1"))

	_, err := eng.Inspect(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Next message starts over at the bootstrap.
	reply := send(t, eng, "s1", "hello")
	assert.True(t, strings.HasPrefix(reply, "**Step 1:**"))

	// Resetting an unknown session is not an error.
	assert.NoError(t, eng.ResetSession(ctx, "never-seen"))
}

func TestEngine_SessionsAreIsolated(t *testing.T) {
	eng := newEngine(t)

	send(t, eng, "a", "yes", "yes", "yes")
	reply := send(t, eng, "b", "hi")
	assert.True(t, strings.HasPrefix(reply, "**Step 1:**"))

	ids, err := eng.Sessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestEngine_EmptySessionID(t *testing.T) {
	eng := newEngine(t)

	_, err := eng.HandleMessage(context.Background(), "", "hi")
	assert.ErrorIs(t, err, cvrguide.ErrEmptySessionID)
	assert.ErrorIs(t, eng.ResetSession(context.Background(), ""), cvrguide.ErrEmptySessionID)
}

func TestEngine_RejectedInputIsEmpty(t *testing.T) {
	eng := newEngine(t, cvrguide.WithMaxInputSize(8))

	reply := send(t, eng, "s1", "yes I am ready now")
	assert.Equal(t, "Please type a message so I can help you with INEC CVR services.", reply)

	reply = send(t, eng, "s1", "   ")
	assert.Equal(t, "Please type a message so I can help you with INEC CVR services.", reply)
}

func TestEngine_ConcurrentTurnsSameSession(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	const turns = 4 // one short of finishing the bootstrap
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.HandleMessage(ctx, "shared", "yes")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := eng.Inspect(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, turns, state.StepIndex, "no turn may be lost")
}

func TestEngine_Current(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	reply, err := eng.Current(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, "**Step 1:**"))

	send(t, eng, "fresh", "yes")
	reply, err = eng.Current(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, "**Step 2:**"))
}

func ExampleEngine_HandleMessage() {
	eng, err := cvrguide.New()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	for _, msg := range []string{"hi", "yes", "yes", "yes", "yes", "yes", "lost"} {
		if _, err := eng.HandleMessage(ctx, "demo", msg); err != nil {
			panic(err)
		}
	}

	state, _ := eng.Inspect(ctx, "demo")
	fmt.Println(state.ActiveWorkflow, state.PendingWorkflow)
	// Output: revalidation lost-pvc
}
