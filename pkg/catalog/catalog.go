package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/cvrguide/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed guides.yaml
var defaultGuides []byte

// Placeholders interpolated into step text at load time.
const (
	placeholderPortalURL = "{{portal_url}}"
	placeholderSignInURL = "{{sign_in_url}}"
)

// document is the on-disk YAML shape.
type document struct {
	PortalURL string            `yaml:"portal_url"`
	SignInURL string            `yaml:"sign_in_url"`
	Bootstrap string            `yaml:"bootstrap"`
	Workflows []domain.Workflow `yaml:"workflows"`
}

// Catalog is a read-only, ordered collection of workflows.
// Workflows returned by Get must not be modified.
type Catalog struct {
	bootstrap string
	portalURL string
	signInURL string
	order     []string
	byID      map[string]*domain.Workflow
}

// Default returns the embedded INEC CVR catalog.
// It panics if the embedded data is invalid, which is caught by the package tests.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultGuides))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads and validates a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(doc.Bootstrap, doc.Workflows, WithPortalURLs(doc.PortalURL, doc.SignInURL))
}

// Option configures catalog construction.
type Option func(*Catalog)

// WithPortalURLs sets the values substituted for {{portal_url}} and {{sign_in_url}}.
func WithPortalURLs(portal, signIn string) Option {
	return func(c *Catalog) {
		c.portalURL = portal
		c.signInURL = signIn
	}
}

// New builds a catalog from workflows in menu order. The bootstrap workflow
// may appear anywhere in the list; it is excluded from Services.
func New(bootstrap string, workflows []domain.Workflow, opts ...Option) (*Catalog, error) {
	if bootstrap == "" {
		bootstrap = domain.BootstrapWorkflowID
	}
	c := &Catalog{
		bootstrap: bootstrap,
		byID:      make(map[string]*domain.Workflow, len(workflows)),
	}
	for _, opt := range opts {
		opt(c)
	}

	replacer := strings.NewReplacer(
		placeholderPortalURL, c.portalURL,
		placeholderSignInURL, c.signInURL,
	)

	for i := range workflows {
		wf := workflows[i]
		wf.Steps = slices.Clone(wf.Steps)
		for j := range wf.Steps {
			wf.Steps[j].Instruction = replacer.Replace(wf.Steps[j].Instruction)
			wf.Steps[j].Question = replacer.Replace(wf.Steps[j].Question)
		}
		if _, dup := c.byID[wf.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate workflow id %q", domain.ErrInvalidCatalog, wf.ID)
		}
		c.byID[wf.ID] = &wf
		if wf.ID != bootstrap {
			c.order = append(c.order, wf.ID)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the workflow with the given id.
func (c *Catalog) Get(id string) (*domain.Workflow, error) {
	wf, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkflowNotFound, id)
	}
	return wf, nil
}

// Bootstrap returns the bootstrap workflow id.
func (c *Catalog) Bootstrap() string {
	return c.bootstrap
}

// Services returns the concrete workflow ids in stable catalog order.
func (c *Catalog) Services() []string {
	return slices.Clone(c.order)
}

// PortalURL returns the public portal address.
func (c *Catalog) PortalURL() string {
	return c.portalURL
}

// Validate checks structural integrity:
//   - the bootstrap exists and has no prerequisites,
//   - step numbers are 1..n in order,
//   - prerequisites reference known workflows,
//   - keywords are not shared between workflows,
//   - a workflow used as a prerequisite only depends on the bootstrap.
//
// The last rule keeps deferral single-level: a pending service can never be
// displaced by a prerequisite of its own prerequisite.
func (c *Catalog) Validate() error {
	var problems []string

	boot, ok := c.byID[c.bootstrap]
	switch {
	case !ok:
		problems = append(problems, fmt.Sprintf("bootstrap workflow %q is missing", c.bootstrap))
	case len(boot.Prerequisites) > 0:
		problems = append(problems, fmt.Sprintf("bootstrap workflow %q cannot have prerequisites", c.bootstrap))
	}
	if len(c.order) == 0 {
		problems = append(problems, "no service workflows defined")
	}

	usedAsPrereq := make(map[string]bool)
	keywordOwner := make(map[string]string)

	ids := append([]string{c.bootstrap}, c.order...)
	for _, id := range ids {
		wf, ok := c.byID[id]
		if !ok {
			continue
		}
		if id == "" || id == domain.SelectionWorkflowID {
			problems = append(problems, fmt.Sprintf("reserved or empty workflow id %q", id))
		}
		if wf.Title == "" {
			problems = append(problems, fmt.Sprintf("%s: missing title", id))
		}
		if len(wf.Steps) == 0 {
			problems = append(problems, fmt.Sprintf("%s: no steps", id))
		}
		for i, s := range wf.Steps {
			if s.Number != i+1 {
				problems = append(problems, fmt.Sprintf("%s: step %d has number %d", id, i+1, s.Number))
			}
			if s.Instruction == "" {
				problems = append(problems, fmt.Sprintf("%s: step %d has no instruction", id, i+1))
			}
		}
		for _, p := range wf.Prerequisites {
			if p == id {
				problems = append(problems, fmt.Sprintf("%s: depends on itself", id))
				continue
			}
			if _, ok := c.byID[p]; !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown prerequisite %q", id, p))
				continue
			}
			if p != c.bootstrap {
				usedAsPrereq[p] = true
			}
		}
		if id != c.bootstrap && len(wf.Keywords) == 0 {
			problems = append(problems, fmt.Sprintf("%s: no selection keywords", id))
		}
		for _, kw := range wf.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if owner, taken := keywordOwner[kw]; taken && owner != id {
				problems = append(problems, fmt.Sprintf("%s: keyword %q already used by %s", id, kw, owner))
				continue
			}
			keywordOwner[kw] = id
		}
	}

	for _, id := range c.order {
		if !usedAsPrereq[id] {
			continue
		}
		for _, p := range c.byID[id].Prerequisites {
			if p != c.bootstrap {
				problems = append(problems, fmt.Sprintf("%s: prerequisite workflows may only depend on %s (found %q)", id, c.bootstrap, p))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", domain.ErrInvalidCatalog, strings.Join(problems, "\n- "))
	}
	return nil
}
