package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
)

// Presenter renders reply text. All methods are pure.
type Presenter struct {
	catalog ports.GuideCatalog
}

// NewPresenter creates a presenter bound to a catalog.
func NewPresenter(catalog ports.GuideCatalog) *Presenter {
	return &Presenter{catalog: catalog}
}

// Step renders the step at idx with its navigation hints.
// An index past the last step yields the generic completion acknowledgement.
func (p *Presenter) Step(wf *domain.Workflow, idx int) string {
	if idx < 0 || idx >= len(wf.Steps) {
		return MsgAllStepsDone
	}

	var b strings.Builder
	writeStep(&b, wf.Steps[idx])

	var hints []string
	if idx > 0 {
		hints = append(hints, "'back' for previous step")
	}
	if wf.ID != p.catalog.Bootstrap() {
		hints = append(hints, "'restart' for different service")
	}
	if len(hints) > 0 {
		fmt.Fprintf(&b, "\n\n💡 *You can type %s*", strings.Join(hints, ", "))
	}
	return b.String()
}

// Clarify repeats the current step's instruction and question after a preamble.
func (p *Presenter) Clarify(wf *domain.Workflow, idx int, preamble string) string {
	if idx < 0 || idx >= len(wf.Steps) {
		return MsgAllStepsDone
	}
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	writeStep(&b, wf.Steps[idx])
	return b.String()
}

// Menu lists every service in catalog order between a preamble and a footer.
func (p *Presenter) Menu(preamble, footer string) (string, error) {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	for _, id := range p.catalog.Services() {
		wf, err := p.catalog.Get(id)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "• **%s**", wf.DisplayName())
		if wf.Summary != "" {
			fmt.Fprintf(&b, " - %s", wf.Summary)
		}
		b.WriteString("\n")
	}
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Completion summarizes a finished workflow: title, required documents and note.
func (p *Presenter) Completion(wf *domain.Workflow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **Excellent! You've completed all steps for %s**", wf.Title)
	if len(wf.RequiredDocuments) > 0 {
		b.WriteString("\n\n**Required Documents:**")
		for _, doc := range wf.RequiredDocuments {
			b.WriteString("\n• ")
			b.WriteString(doc)
		}
	}
	b.WriteString("\n\n**Important Note:**\n")
	b.WriteString(wf.Note())
	return b.String()
}

// Interception explains that target needs prerequisite first.
func (p *Presenter) Interception(target, prerequisite *domain.Workflow) string {
	return fmt.Sprintf("🔍 **Important Notice**\n\n"+
		"Before proceeding with **%s**, INEC requires you to first complete the **%s** process before making any changes.\n\n"+
		"Let's start with %s first:",
		target.Title, prerequisite.DisplayName(), strings.ToLower(prerequisite.DisplayName()))
}

// Resumption announces the automatic switch back to the deferred service.
func (p *Presenter) Resumption(pending *domain.Workflow) string {
	return fmt.Sprintf("🔄 **Now proceeding with your original request: %s**\n\n"+
		"Let's continue with your %s:",
		pending.Title, strings.ToLower(pending.DisplayName()))
}

func writeStep(b *strings.Builder, s domain.Step) {
	fmt.Fprintf(b, "**Step %d:** %s", s.Number, s.Instruction)
	if s.Question != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Question)
	}
}

func joinParagraphs(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
