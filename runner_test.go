package cvrguide_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/cvrguide"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Conversation(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer

	r := &cvrguide.Runner{
		Input:    strings.NewReader("yes\nback\nexit\n"),
		Output:   &out,
		Headless: true,
	}
	require.NoError(t, r.Run(context.Background(), eng))

	got := out.String()
	assert.Equal(t, 2, strings.Count(got, "**Step 1:**"), "greeting and back both show step 1")
	assert.Contains(t, got, "**Step 2:**")
	assert.True(t, strings.HasSuffix(got, "Bye!\n"))
	assert.NotContains(t, got, "> ")
}

func TestRunner_ResetAndEOF(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer

	r := &cvrguide.Runner{
		Input:     strings.NewReader("yes\nreset\nyes"),
		Output:    &out,
		SessionID: "terminal",
		Renderer:  func(s string) (string, error) { return "[" + s + "]", nil },
	}
	require.NoError(t, r.Run(context.Background(), eng))

	got := out.String()
	assert.Contains(t, got, "--- INEC CVR Guide")
	assert.Contains(t, got, "["+cvrguide.ReplyReset+"]")

	// The unterminated last line is still processed, from a fresh session.
	state, err := eng.Inspect(context.Background(), "terminal")
	require.NoError(t, err)
	assert.Equal(t, 1, state.StepIndex)
}

func TestRunner_RequiresIO(t *testing.T) {
	eng := newEngine(t)
	assert.Error(t, (&cvrguide.Runner{}).Run(context.Background(), eng))
}
