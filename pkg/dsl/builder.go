package dsl

import (
	"fmt"
	"slices"

	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/aretw0/cvrguide/pkg/domain"
)

// Builder manages the catalog construction.
type Builder struct {
	bootstrap *WorkflowBuilder
	services  []*WorkflowBuilder
	byID      map[string]*WorkflowBuilder
}

// New creates a new catalog builder.
func New() *Builder {
	return &Builder{
		byID: make(map[string]*WorkflowBuilder),
	}
}

// Bootstrap declares the workflow every session starts with.
// Calling it again with the same id returns the existing builder.
func (b *Builder) Bootstrap(id string) *WorkflowBuilder {
	wb := b.get(id)
	b.bootstrap = wb
	b.services = slices.DeleteFunc(b.services, func(s *WorkflowBuilder) bool { return s == wb })
	return wb
}

// Service declares a service workflow. Menu order follows declaration order.
// If the workflow already exists, it returns the existing builder.
func (b *Builder) Service(id string) *WorkflowBuilder {
	if wb, ok := b.byID[id]; ok {
		return wb
	}
	wb := b.get(id)
	b.services = append(b.services, wb)
	return wb
}

func (b *Builder) get(id string) *WorkflowBuilder {
	if wb, ok := b.byID[id]; ok {
		return wb
	}
	wb := &WorkflowBuilder{workflow: domain.Workflow{ID: id}}
	b.byID[id] = wb
	return wb
}

// Build numbers the steps, makes every service depend on the bootstrap
// and validates the result.
func (b *Builder) Build(opts ...catalog.Option) (*catalog.Catalog, error) {
	if b.bootstrap == nil {
		return nil, fmt.Errorf("%w: no bootstrap workflow declared", domain.ErrInvalidCatalog)
	}
	bootID := b.bootstrap.workflow.ID

	workflows := []domain.Workflow{b.bootstrap.Build()}
	for _, wb := range b.services {
		wf := wb.Build()
		if !slices.Contains(wf.Prerequisites, bootID) {
			wf.Prerequisites = append([]string{bootID}, wf.Prerequisites...)
		}
		workflows = append(workflows, wf)
	}

	c, err := catalog.New(bootID, workflows, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return c, nil
}
