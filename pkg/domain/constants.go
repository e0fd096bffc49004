package domain

// Reserved workflow identifiers.
const (
	// BootstrapWorkflowID is the universal sign-up every session starts with.
	BootstrapWorkflowID = "universal-signup"

	// SelectionWorkflowID is the virtual state where the user picks a service.
	// It has no steps and never appears in the catalog.
	SelectionWorkflowID = "service-selection"
)
