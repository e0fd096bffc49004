package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn              EventType = "turn"
	EventWorkflowEnter     EventType = "workflow_enter"
	EventWorkflowComplete  EventType = "workflow_complete"
	EventWorkflowIntercept EventType = "workflow_intercept"
	EventWorkflowResume    EventType = "workflow_resume"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TurnEvent describes one processed message.
type TurnEvent struct {
	EventBase
	Mode     Mode       `json:"mode"`
	Intent   IntentKind `json:"intent"`
	Workflow string     `json:"workflow"`
	Diff     *StateDiff `json:"diff,omitempty"`
}

// WorkflowEvent describes a workflow-level transition.
type WorkflowEvent struct {
	EventBase
	WorkflowID string `json:"workflow_id"`
	// RelatedID is the pending service for intercept/resume events.
	RelatedID string `json:"related_id,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTurn              func(context.Context, *TurnEvent)
	OnWorkflowEnter     func(context.Context, *WorkflowEvent)
	OnWorkflowComplete  func(context.Context, *WorkflowEvent)
	OnWorkflowIntercept func(context.Context, *WorkflowEvent)
	OnWorkflowResume    func(context.Context, *WorkflowEvent)
}

// Merge chains two hook sets; both callbacks run, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTurn:              chain(h.OnTurn, other.OnTurn),
		OnWorkflowEnter:     chain(h.OnWorkflowEnter, other.OnWorkflowEnter),
		OnWorkflowComplete:  chain(h.OnWorkflowComplete, other.OnWorkflowComplete),
		OnWorkflowIntercept: chain(h.OnWorkflowIntercept, other.OnWorkflowIntercept),
		OnWorkflowResume:    chain(h.OnWorkflowResume, other.OnWorkflowResume),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
