package domain

// IntentKind is the discrete meaning of a user utterance.
type IntentKind string

const (
	IntentNone           IntentKind = "none"
	IntentAdvance        IntentKind = "advance"
	IntentRetreat        IntentKind = "retreat"
	IntentRestart        IntentKind = "restart"
	IntentNegativeOrHelp IntentKind = "negative_or_help"
	IntentWorkflowHint   IntentKind = "workflow_hint"
)

// Intent is the result of classifying a normalized message.
type Intent struct {
	Kind IntentKind `json:"kind"`

	// Workflows holds every matched workflow in catalog order (WorkflowHint only).
	// The first entry is the selection.
	Workflows []string `json:"workflows,omitempty"`
}

// Selected returns the deterministic workflow choice of a WorkflowHint, or "".
func (i Intent) Selected() string {
	if i.Kind != IntentWorkflowHint || len(i.Workflows) == 0 {
		return ""
	}
	return i.Workflows[0]
}
