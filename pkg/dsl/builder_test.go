package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T) *catalog.Catalog {
	t.Helper()
	b := dsl.New()

	b.Bootstrap("signup").
		Title("Create your account").
		Step("Open {{portal_url}}.").
		Step("Verify your email.").
		Ask("Done?")

	b.Service("pvc").
		Title("Replace a lost PVC").
		Name("Lost PVC").
		Keywords("lost", "pvc").
		Documents("Police report").
		Step("Fill the form.").
		Done("Collect it at your LGA office.")

	b.Service("move").
		Title("Transfer").
		Keywords("transfer").
		Requires("pvc").
		Step("Pick the new polling unit.")

	c, err := b.Build(catalog.WithPortalURLs("https://portal.test", ""))
	require.NoError(t, err)
	return c
}

func TestBuilder_Catalog(t *testing.T) {
	c := build(t)

	assert.Equal(t, "signup", c.Bootstrap())
	assert.Equal(t, []string{"pvc", "move"}, c.Services())

	signup, err := c.Get("signup")
	require.NoError(t, err)
	require.Len(t, signup.Steps, 2)
	assert.Equal(t, 2, signup.Steps[1].Number)
	assert.Equal(t, "Done?", signup.Steps[1].Question)
	assert.Equal(t, "Open https://portal.test.", signup.Steps[0].Instruction)
	assert.Empty(t, signup.Prerequisites)

	move, err := c.Get("move")
	require.NoError(t, err)
	assert.Equal(t, []string{"signup", "pvc"}, move.Prerequisites)

	pvc, err := c.Get("pvc")
	require.NoError(t, err)
	assert.Equal(t, "Lost PVC", pvc.DisplayName())
	assert.Equal(t, "Collect it at your LGA office.", pvc.Note())
}

func TestBuilder_Errors(t *testing.T) {
	_, err := dsl.New().Build()
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	b := dsl.New()
	b.Bootstrap("signup").Title("Sign up").Step("Go.")
	b.Service("empty").Title("Empty").Keywords("empty")
	_, err = b.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog, "a service without steps is rejected")
}

func TestBuilder_DrivesEngine(t *testing.T) {
	engine, err := cvrguide.New(cvrguide.WithCatalog(build(t)))
	require.NoError(t, err)
	ctx := context.Background()

	for _, msg := range []string{"yes", "yes"} {
		_, err := engine.HandleMessage(ctx, "dsl", msg)
		require.NoError(t, err)
	}
	reply, err := engine.HandleMessage(ctx, "dsl", "lost pvc")
	require.NoError(t, err)
	assert.Contains(t, reply, "Fill the form.")
}
