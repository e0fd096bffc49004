// Package intent maps normalized user messages to discrete intents.
//
// Matching is deterministic keyword matching on substrings. Keyword tables are data,
// so the classifier can be tested without the state machine.
package intent

import (
	"strings"

	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
)

// Rule binds a navigation intent to its trigger phrases.
type Rule struct {
	Kind     domain.IntentKind
	Keywords []string
}

// DefaultRules lists navigation rules in precedence order:
// retreat and restart win over advance and negative/help.
var DefaultRules = []Rule{
	{Kind: domain.IntentRetreat, Keywords: []string{"back", "previous"}},
	{Kind: domain.IntentRestart, Keywords: []string{"restart", "start over", "different service"}},
	{Kind: domain.IntentAdvance, Keywords: []string{"yes", "ready", "done", "ok", "continue", "completed"}},
	{Kind: domain.IntentNegativeOrHelp, Keywords: []string{"no", "help", "not sure", "can't", "problem"}},
}

type serviceRule struct {
	id       string
	keywords []string
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules    []Rule
	services []serviceRule
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithRules replaces DefaultRules. Order is precedence.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// New builds a classifier whose service keywords come from the catalog,
// iterated in the catalog's stable service order.
func New(catalog ports.GuideCatalog, opts ...Option) (*Classifier, error) {
	c := &Classifier{rules: DefaultRules}
	for _, opt := range opts {
		opt(c)
	}

	for _, id := range catalog.Services() {
		wf, err := catalog.Get(id)
		if err != nil {
			return nil, err
		}
		rule := serviceRule{id: id}
		for _, kw := range wf.Keywords {
			if kw = normalizeKeyword(kw); kw != "" {
				rule.keywords = append(rule.keywords, kw)
			}
		}
		c.services = append(c.services, rule)
	}
	return c, nil
}

// Classify interprets msg for the given mode. Workflow hints are only
// evaluated in selection mode, where they take precedence.
func (c *Classifier) Classify(msg string, mode domain.Mode) domain.Intent {
	if mode == domain.ModeSelection {
		if hint := c.ClassifyWorkflow(msg); hint.Kind == domain.IntentWorkflowHint {
			return hint
		}
	}
	return c.ClassifyNavigation(msg)
}

// ClassifyNavigation returns the first matching navigation intent, or IntentNone.
func (c *Classifier) ClassifyNavigation(msg string) domain.Intent {
	for _, r := range c.rules {
		if containsAny(msg, r.Keywords) {
			return domain.Intent{Kind: r.Kind}
		}
	}
	return domain.Intent{Kind: domain.IntentNone}
}

// ClassifyWorkflow returns every service whose keywords appear in msg,
// in catalog order. The first match is the deterministic selection.
func (c *Classifier) ClassifyWorkflow(msg string) domain.Intent {
	var matched []string
	for _, s := range c.services {
		if containsAny(msg, s.keywords) {
			matched = append(matched, s.id)
		}
	}
	if len(matched) == 0 {
		return domain.Intent{Kind: domain.IntentNone}
	}
	return domain.Intent{Kind: domain.IntentWorkflowHint, Workflows: matched}
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}
