package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := catalog.Default()

	assert.Equal(t, domain.BootstrapWorkflowID, c.Bootstrap())
	assert.Equal(t,
		[]string{"new-registration", "transfer", "update", "lost-pvc", "revalidation"},
		c.Services(),
		"service order drives the menu and keyword tie-breaks",
	)

	boot, err := c.Get(domain.BootstrapWorkflowID)
	require.NoError(t, err)
	assert.Len(t, boot.Steps, 5)
	assert.Contains(t, boot.Steps[0].Instruction, "https://cvr.inecnigeria.org/Public/getStarted")
	assert.NotContains(t, boot.Steps[0].Instruction, "{{")

	reval, err := c.Get("revalidation")
	require.NoError(t, err)
	assert.Len(t, reval.Steps, 3)

	for _, id := range []string{"transfer", "update", "lost-pvc"} {
		wf, err := c.Get(id)
		require.NoError(t, err)
		assert.Contains(t, wf.Prerequisites, "revalidation", id)
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := catalog.Default().Get("voting")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
}

func TestServices_ReturnsCopy(t *testing.T) {
	c := catalog.Default()
	s := c.Services()
	s[0] = "mutated"
	assert.Equal(t, "new-registration", c.Services()[0])
}

func steps(n int) []domain.Step {
	out := make([]domain.Step, n)
	for i := range out {
		out[i] = domain.Step{Number: i + 1, Instruction: "do it"}
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	boot := domain.Workflow{ID: "boot", Title: "Boot", Steps: steps(1)}

	tests := []struct {
		name      string
		workflows []domain.Workflow
		wantErr   string
	}{
		{
			name:      "missing bootstrap",
			workflows: []domain.Workflow{{ID: "a", Title: "A", Steps: steps(1), Keywords: []string{"a"}}},
			wantErr:   "bootstrap workflow",
		},
		{
			name: "bad step numbering",
			workflows: []domain.Workflow{boot, {ID: "a", Title: "A", Keywords: []string{"a"},
				Steps: []domain.Step{{Number: 2, Instruction: "x"}}}},
			wantErr: "step 1 has number 2",
		},
		{
			name: "unknown prerequisite",
			workflows: []domain.Workflow{boot, {ID: "a", Title: "A", Steps: steps(1), Keywords: []string{"a"},
				Prerequisites: []string{"ghost"}}},
			wantErr: "unknown prerequisite",
		},
		{
			name: "shared keyword",
			workflows: []domain.Workflow{boot,
				{ID: "a", Title: "A", Steps: steps(1), Keywords: []string{"card"}},
				{ID: "b", Title: "B", Steps: steps(1), Keywords: []string{"Card"}},
			},
			wantErr: "already used by a",
		},
		{
			name: "nested prerequisite",
			workflows: []domain.Workflow{boot,
				{ID: "a", Title: "A", Steps: steps(1), Keywords: []string{"a"}},
				{ID: "b", Title: "B", Steps: steps(1), Keywords: []string{"b"}, Prerequisites: []string{"a"}},
				{ID: "c", Title: "C", Steps: steps(1), Keywords: []string{"c"}, Prerequisites: []string{"b"}},
			},
			wantErr: "prerequisite workflows may only depend on boot",
		},
		{
			name: "reserved id",
			workflows: []domain.Workflow{boot,
				{ID: domain.SelectionWorkflowID, Title: "S", Steps: steps(1), Keywords: []string{"s"}},
			},
			wantErr: "reserved",
		},
		{
			name: "duplicate id",
			workflows: []domain.Workflow{boot,
				{ID: "a", Title: "A", Steps: steps(1), Keywords: []string{"a"}},
				{ID: "a", Title: "A", Steps: steps(1), Keywords: []string{"x"}},
			},
			wantErr: "duplicate workflow id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New("boot", tt.workflows)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guides.yaml")
	content := `
portal_url: https://example.org/start
bootstrap: signup
workflows:
  - id: signup
    title: Sign up
    steps:
      - number: 1
        instruction: "Open {{portal_url}}"
  - id: card
    title: Card
    keywords: [card]
    prerequisites: [signup]
    steps:
      - number: 1
        instruction: Ask for a card
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "signup", c.Bootstrap())
	assert.Equal(t, []string{"card"}, c.Services())

	wf, err := c.Get("signup")
	require.NoError(t, err)
	assert.Equal(t, "Open https://example.org/start", wf.Steps[0].Instruction)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := catalog.Load(strings.NewReader("bootstrap: x\nworkflowz: []\n"))
	assert.Error(t, err)
}

func TestDefault_Contract(t *testing.T) {
	tests.GuideCatalogContractTest(t, catalog.Default())
}
