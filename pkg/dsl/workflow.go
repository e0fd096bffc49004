package dsl

import (
	"slices"

	"github.com/aretw0/cvrguide/pkg/domain"
)

// WorkflowBuilder provides a fluent API for configuring a workflow.
type WorkflowBuilder struct {
	workflow domain.Workflow
}

// Title sets the heading shown with every step.
func (w *WorkflowBuilder) Title(title string) *WorkflowBuilder {
	w.workflow.Title = title
	return w
}

// Name sets the short menu label.
func (w *WorkflowBuilder) Name(name string) *WorkflowBuilder {
	w.workflow.Name = name
	return w
}

// Summary sets the one-line description used in menus and completion notes.
func (w *WorkflowBuilder) Summary(summary string) *WorkflowBuilder {
	w.workflow.Summary = summary
	return w
}

// Describe sets the long description.
func (w *WorkflowBuilder) Describe(description string) *WorkflowBuilder {
	w.workflow.Description = description
	return w
}

// Step appends an instruction. Steps are numbered by Build.
func (w *WorkflowBuilder) Step(instruction string) *WorkflowBuilder {
	w.workflow.Steps = append(w.workflow.Steps, domain.Step{Instruction: instruction})
	return w
}

// Ask attaches a confirmation question to the last step.
func (w *WorkflowBuilder) Ask(question string) *WorkflowBuilder {
	if n := len(w.workflow.Steps); n > 0 {
		w.workflow.Steps[n-1].Question = question
	}
	return w
}

// Keywords adds the words that select this workflow from the menu.
func (w *WorkflowBuilder) Keywords(keywords ...string) *WorkflowBuilder {
	w.workflow.Keywords = append(w.workflow.Keywords, keywords...)
	return w
}

// Requires adds prerequisite workflows, in the order they must be completed.
func (w *WorkflowBuilder) Requires(ids ...string) *WorkflowBuilder {
	for _, id := range ids {
		if !slices.Contains(w.workflow.Prerequisites, id) {
			w.workflow.Prerequisites = append(w.workflow.Prerequisites, id)
		}
	}
	return w
}

// Documents lists what the user should have at hand.
func (w *WorkflowBuilder) Documents(docs ...string) *WorkflowBuilder {
	w.workflow.RequiredDocuments = append(w.workflow.RequiredDocuments, docs...)
	return w
}

// Done sets the completion note.
func (w *WorkflowBuilder) Done(note string) *WorkflowBuilder {
	w.workflow.CompletionNote = note
	return w
}

// Build returns a copy of the workflow with numbered steps.
// This is primarily used by the Builder, but exposed for advanced usage.
func (w *WorkflowBuilder) Build() domain.Workflow {
	wf := w.workflow
	wf.Steps = slices.Clone(wf.Steps)
	for i := range wf.Steps {
		wf.Steps[i].Number = i + 1
	}
	wf.Keywords = slices.Clone(wf.Keywords)
	wf.Prerequisites = slices.Clone(wf.Prerequisites)
	wf.RequiredDocuments = slices.Clone(wf.RequiredDocuments)
	return wf
}
