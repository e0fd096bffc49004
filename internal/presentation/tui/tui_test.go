package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/cvrguide/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "INEC Continuous Voter Registration  v1.2.3")
}

func TestNonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, tui.IsTerminal(&buf))
	assert.Equal(t, 80, tui.Width(&buf))
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(60)
	require.NoError(t, err)

	out, err := render("**Step 1 of 3:** Visit the portal")
	require.NoError(t, err)
	assert.Contains(t, out, "Visit the portal")
}
