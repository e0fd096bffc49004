package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
)

// GuideCatalogContractTest is a reusable test suite that verifies if an implementation complies with ports.GuideCatalog.
func GuideCatalogContractTest(t *testing.T, catalog ports.GuideCatalog) {
	t.Helper()

	t.Run("Bootstrap_Resolvable", func(t *testing.T) {
		wf, err := catalog.Get(catalog.Bootstrap())
		if err != nil {
			t.Fatalf("bootstrap %q not resolvable: %v", catalog.Bootstrap(), err)
		}
		if len(wf.Steps) == 0 {
			t.Errorf("bootstrap %q has no steps", wf.ID)
		}
	})

	t.Run("Services_Resolvable", func(t *testing.T) {
		services := catalog.Services()
		if len(services) == 0 {
			t.Fatal("expected at least one service")
		}
		for _, id := range services {
			if id == catalog.Bootstrap() {
				t.Errorf("bootstrap %q must not be listed as a service", id)
			}
			wf, err := catalog.Get(id)
			if err != nil {
				t.Errorf("service %q not resolvable: %v", id, err)
				continue
			}
			for i, s := range wf.Steps {
				if s.Number != i+1 {
					t.Errorf("service %q step %d numbered %d", id, i+1, s.Number)
				}
			}
		}
	})

	t.Run("Services_StableOrder", func(t *testing.T) {
		a, b := catalog.Services(), catalog.Services()
		if len(a) != len(b) {
			t.Fatalf("order changed between calls: %v vs %v", a, b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("order changed between calls: %v vs %v", a, b)
			}
		}
	})

	t.Run("Get_Unknown", func(t *testing.T) {
		_, err := catalog.Get(domain.SelectionWorkflowID)
		if !errors.Is(err, domain.ErrWorkflowNotFound) {
			t.Errorf("expected ErrWorkflowNotFound for the selection state, got %v", err)
		}
	})
}
