package domain

// Step is a single instruction inside a Workflow.
type Step struct {
	// Number is 1-based and equals the step position + 1.
	Number      int    `json:"number" yaml:"number"`
	Instruction string `json:"instruction" yaml:"instruction"`
	// Question is the optional confirmation prompt shown after the instruction.
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
}

// Workflow is an immutable guide for one service.
type Workflow struct {
	ID                string   `json:"id" yaml:"id"`
	Title             string   `json:"title" yaml:"title"`
	Name              string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary           string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	Steps             []Step   `json:"steps" yaml:"steps"`
	RequiredDocuments []string `json:"required_documents,omitempty" yaml:"required_documents,omitempty"`
	CompletionNote    string   `json:"completion_note,omitempty" yaml:"completion_note,omitempty"`
	Prerequisites     []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`

	// Keywords select this workflow from the service menu.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// DefaultCompletionNote is used when a workflow does not define its own note.
const DefaultCompletionNote = "Your request has been submitted and will be processed by INEC."

// Note returns the completion note, falling back to DefaultCompletionNote.
func (w *Workflow) Note() string {
	if w.CompletionNote == "" {
		return DefaultCompletionNote
	}
	return w.CompletionNote
}

// DisplayName is the short menu label (e.g. "Lost PVC"), defaulting to the title.
func (w *Workflow) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.Title
}
