package domain

// StateDiff represents the changes produced by one turn.
// It is designed to be serialized to JSON for logs and transport debugging.
type StateDiff struct {
	ActiveWorkflow *string `json:"active_workflow,omitempty"`
	StepIndex      *int    `json:"step_index,omitempty"`

	// Completed contains workflows appended to CompletedWorkflows.
	Completed []string `json:"completed,omitempty"`

	// Pending is set when PendingWorkflow changed; an empty string means it was cleared.
	Pending *string `json:"pending,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *SessionState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{}

	if oldState == nil || oldState.ActiveWorkflow != newState.ActiveWorkflow {
		diff.ActiveWorkflow = &newState.ActiveWorkflow
	}
	if oldState == nil || oldState.StepIndex != newState.StepIndex {
		diff.StepIndex = &newState.StepIndex
	}
	if oldState == nil {
		if newState.PendingWorkflow != "" {
			diff.Pending = &newState.PendingWorkflow
		}
	} else if oldState.PendingWorkflow != newState.PendingWorkflow {
		diff.Pending = &newState.PendingWorkflow
	}

	// Completions are append-only.
	oldLen := 0
	if oldState != nil {
		oldLen = len(oldState.CompletedWorkflows)
	}
	if len(newState.CompletedWorkflows) > oldLen {
		diff.Completed = newState.CompletedWorkflows[oldLen:]
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.ActiveWorkflow == nil &&
		d.StepIndex == nil &&
		d.Pending == nil &&
		len(d.Completed) == 0
}
