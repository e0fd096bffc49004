package domain

import (
	"slices"
	"time"
)

// Mode is the category of the active workflow. The runtime derives it from ActiveWorkflow.
type Mode string

const (
	ModeBootstrap Mode = "bootstrap" // Universal sign-up
	ModeSelection Mode = "selection" // Service menu, no steps of its own
	ModeConcrete  Mode = "concrete"  // Any service or prerequisite workflow
)

// SessionState is the position of a single conversation.
// It is owned by exactly one conversation and mutated only by the runtime.
type SessionState struct {
	// ActiveWorkflow is the bootstrap, the selection state or a catalog workflow ID.
	ActiveWorkflow string `json:"active_workflow"`

	// StepIndex is zero-based into ActiveWorkflow's steps. Never persisted as len(steps).
	StepIndex int `json:"step_index"`

	// CompletedWorkflows is append-only, in order of first completion.
	CompletedWorkflows []string `json:"completed_workflows"`

	// PendingWorkflow is the service deferred by a prerequisite interception.
	PendingWorkflow string `json:"pending_workflow,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// NewSessionState creates a fresh session positioned at the first step of the bootstrap workflow.
func NewSessionState() *SessionState {
	return &SessionState{
		ActiveWorkflow:     BootstrapWorkflowID,
		StepIndex:          0,
		CompletedWorkflows: []string{},
	}
}

// HasCompleted reports whether the workflow was finished at least once.
func (s *SessionState) HasCompleted(id string) bool {
	return slices.Contains(s.CompletedWorkflows, id)
}

// MarkCompleted records a completion. Repeated completions are not duplicated.
func (s *SessionState) MarkCompleted(id string) {
	if s.HasCompleted(id) {
		return
	}
	s.CompletedWorkflows = append(s.CompletedWorkflows, id)
}

// Clone returns a deep copy, so transitions never alias the caller's state.
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.CompletedWorkflows = slices.Clone(s.CompletedWorkflows)
	if c.CompletedWorkflows == nil {
		c.CompletedWorkflows = []string{}
	}
	return &c
}
