package ports

import "github.com/aretw0/cvrguide/pkg/domain"

// GuideCatalog defines how the engine retrieves workflow definitions.
type GuideCatalog interface {
	// Get returns the workflow for id, or an error wrapping domain.ErrWorkflowNotFound.
	Get(id string) (*domain.Workflow, error)

	// Bootstrap returns the id of the workflow every session starts with.
	Bootstrap() string

	// Services returns concrete workflow ids in a fixed, stable order.
	// The order drives menu rendering and keyword tie-breaking.
	Services() []string
}
