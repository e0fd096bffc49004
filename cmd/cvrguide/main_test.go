package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cvrguide version ")
}

func TestCatalogLs(t *testing.T) {
	out, err := execute(t, "", "catalog", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "universal-signup")
	assert.Contains(t, out, "revalidation")
}

func TestChatAndSessionCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "done\nexit\n", "chat", "--store", "file", "--session-dir", dir, "--session", "term")
	require.NoError(t, err)
	assert.Contains(t, out, "Bye!")

	out, err = execute(t, "", "session", "ls", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- term")

	out, err = execute(t, "", "session", "inspect", "term", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"step_index": 1`)

	out, err = execute(t, "", "session", "rm", "term", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'term'")
}

func TestSessionLs_RejectsMemoryStore(t *testing.T) {
	_, err := execute(t, "", "session", "ls", "--store", "memory")
	assert.ErrorContains(t, err, "does not outlive the process")
}

func TestCatalogGraph(t *testing.T) {
	out, err := execute(t, "", "catalog", "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "universal_signup((")
}
