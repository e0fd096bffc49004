package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/cvrguide/internal/presentation/graph"
	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steps(n int) []domain.Step {
	out := make([]domain.Step, n)
	for i := range out {
		out[i] = domain.Step{Number: i + 1, Instruction: "do it"}
	}
	return out
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("sign-up", []domain.Workflow{
		{ID: "sign-up", Title: "Create an account", Name: "Sign Up", Steps: steps(2)},
		{ID: "register", Title: "Register", Keywords: []string{"register"}, Prerequisites: []string{"sign-up"}, Steps: steps(1)},
		{ID: "renew", Title: "Renew", Keywords: []string{"renew"}, Prerequisites: []string{"sign-up", "register"}, Steps: steps(1)},
	})
	require.NoError(t, err)
	return c
}

func TestGenerateMermaid(t *testing.T) {
	out, err := graph.GenerateMermaid(testCatalog(t), nil)
	require.NoError(t, err)

	for _, want := range []string{
		"graph TD\n",
		`sign_up(("Sign Up <br/> 2 steps"))`,
		"sign_up --> service_selection",
		`register["Register <br/> 1 step"]`,
		"service_selection --> renew",
		`register -. "requires" .-> renew`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, `sign_up -. "requires"`, "bootstrap edge is implied")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out, err := graph.GenerateMermaid(testCatalog(t), &graph.Overlay{
		Completed: []string{"sign-up", "sign-up"},
		Active:    "register",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "class sign_up completed;"))
	assert.Contains(t, out, "class register active;")
}
