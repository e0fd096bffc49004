package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/cvrguide/internal/intent"
	"github.com/aretw0/cvrguide/internal/logging"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/ports"
)

// Engine is the workflow state machine.
// Step is a synchronous transform of (message, state) into (reply, state); it performs no I/O.
type Engine struct {
	catalog    ports.GuideCatalog
	classifier *intent.Classifier
	presenter  *Presenter
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClassifier replaces the catalog-derived classifier.
func WithClassifier(c *intent.Classifier) EngineOption {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithClock overrides the time source used for UpdatedAt and event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// Turn is the outcome of processing one message.
type Turn struct {
	Reply  string
	State  *domain.SessionState
	Intent domain.Intent
}

// NewEngine creates a new engine over the catalog.
func NewEngine(catalog ports.GuideCatalog, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		catalog:   catalog,
		presenter: NewPresenter(catalog),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.classifier == nil {
		c, err := intent.New(catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to build classifier: %w", err)
		}
		e.classifier = c
	}
	return e, nil
}

// NewSession returns the initial state: first step of the bootstrap workflow.
func (e *Engine) NewSession() *domain.SessionState {
	s := domain.NewSessionState()
	s.ActiveWorkflow = e.catalog.Bootstrap()
	return s
}

// Mode derives the state machine mode of a state.
func (e *Engine) Mode(state *domain.SessionState) domain.Mode {
	switch state.ActiveWorkflow {
	case e.catalog.Bootstrap():
		return domain.ModeBootstrap
	case domain.SelectionWorkflowID:
		return domain.ModeSelection
	default:
		return domain.ModeConcrete
	}
}

// Presenter exposes the renderer, so callers can show the current step without a transition.
func (e *Engine) Presenter() *Presenter {
	return e.presenter
}

// Current renders the step or menu the state is positioned at.
func (e *Engine) Current(state *domain.SessionState) (string, error) {
	if e.Mode(state) == domain.ModeSelection {
		return e.presenter.Menu(MsgBootstrapDone, MsgBootstrapMenuFooter)
	}
	wf, err := e.catalog.Get(state.ActiveWorkflow)
	if err != nil {
		return "", err
	}
	return e.presenter.Step(wf, state.StepIndex), nil
}

// Step applies msg to state. msg must already be trimmed and lower-cased.
// The input state is never mutated; a nil state starts a new session.
func (e *Engine) Step(ctx context.Context, sessionID string, state *domain.SessionState, msg string) (*Turn, error) {
	if state == nil {
		state = e.NewSession()
	}
	next := state.Clone()

	if msg == "" {
		return &Turn{Reply: MsgEmptyInput, State: next, Intent: domain.Intent{Kind: domain.IntentNone}}, nil
	}

	mode := e.Mode(next)
	in := e.classifier.Classify(msg, mode)

	var (
		reply string
		err   error
	)
	switch mode {
	case domain.ModeBootstrap:
		reply, err = e.stepBootstrap(ctx, sessionID, next, in)
	case domain.ModeSelection:
		reply, err = e.stepSelection(ctx, sessionID, next, in)
	default:
		reply, err = e.stepConcrete(ctx, sessionID, next, in)
	}
	if err != nil {
		e.logger.Error("turn failed",
			"session_id", sessionID,
			"workflow", state.ActiveWorkflow,
			"step", state.StepIndex,
			"err", err,
		)
		return nil, err
	}

	next.UpdatedAt = e.now()

	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: e.event(domain.EventTurn, sessionID),
			Mode:      mode,
			Intent:    in.Kind,
			Workflow:  next.ActiveWorkflow,
			Diff:      domain.Diff(state, next),
		})
	}
	e.logger.Debug("turn",
		"session_id", sessionID,
		"mode", mode,
		"intent", in.Kind,
		"workflow", next.ActiveWorkflow,
		"step", next.StepIndex,
	)

	return &Turn{Reply: reply, State: next, Intent: in}, nil
}

func (e *Engine) stepBootstrap(ctx context.Context, sessionID string, s *domain.SessionState, in domain.Intent) (string, error) {
	wf, err := e.activeWorkflow(s)
	if err != nil {
		return "", err
	}

	switch in.Kind {
	case domain.IntentRetreat:
		if s.StepIndex > 0 {
			s.StepIndex--
		}
		return e.presenter.Step(wf, s.StepIndex), nil

	case domain.IntentRestart:
		s.StepIndex = 0
		return e.presenter.Step(wf, 0), nil

	case domain.IntentAdvance:
		if s.StepIndex+1 < len(wf.Steps) {
			s.StepIndex++
			return e.presenter.Step(wf, s.StepIndex), nil
		}
		s.MarkCompleted(wf.ID)
		s.ActiveWorkflow = domain.SelectionWorkflowID
		s.StepIndex = 0
		e.emitWorkflow(ctx, e.hooks.OnWorkflowComplete, domain.EventWorkflowComplete, sessionID, wf.ID, "")
		return e.presenter.Menu(MsgBootstrapDone, MsgBootstrapMenuFooter)

	case domain.IntentNegativeOrHelp:
		return e.presenter.Clarify(wf, s.StepIndex, MsgBootstrapClarify), nil

	default:
		return e.presenter.Step(wf, s.StepIndex), nil
	}
}

func (e *Engine) stepSelection(ctx context.Context, sessionID string, s *domain.SessionState, in domain.Intent) (string, error) {
	target := in.Selected()
	if target == "" {
		return e.presenter.Menu(MsgUnknownService, MsgUnknownServiceFooter)
	}

	wf, err := e.catalog.Get(target)
	if err != nil {
		return "", err
	}

	if prereqID := e.firstUnmet(wf, s); prereqID != "" {
		prereq, err := e.catalog.Get(prereqID)
		if err != nil {
			return "", err
		}
		s.PendingWorkflow = wf.ID
		s.ActiveWorkflow = prereq.ID
		s.StepIndex = 0
		e.emitWorkflow(ctx, e.hooks.OnWorkflowIntercept, domain.EventWorkflowIntercept, sessionID, prereq.ID, wf.ID)
		return joinParagraphs(e.presenter.Interception(wf, prereq), e.presenter.Step(prereq, 0)), nil
	}

	s.ActiveWorkflow = wf.ID
	s.StepIndex = 0
	e.emitWorkflow(ctx, e.hooks.OnWorkflowEnter, domain.EventWorkflowEnter, sessionID, wf.ID, "")
	return e.presenter.Step(wf, 0), nil
}

func (e *Engine) stepConcrete(ctx context.Context, sessionID string, s *domain.SessionState, in domain.Intent) (string, error) {
	wf, err := e.activeWorkflow(s)
	if err != nil {
		return "", err
	}

	switch in.Kind {
	case domain.IntentRetreat:
		if s.StepIndex > 0 {
			s.StepIndex--
		}
		return e.presenter.Step(wf, s.StepIndex), nil

	case domain.IntentRestart:
		// A pending deferral is abandoned, not resumed.
		s.PendingWorkflow = ""
		s.ActiveWorkflow = domain.SelectionWorkflowID
		s.StepIndex = 0
		return e.presenter.Menu(MsgChooseDifferent, "")

	case domain.IntentAdvance:
		if s.StepIndex+1 < len(wf.Steps) {
			s.StepIndex++
			return e.presenter.Step(wf, s.StepIndex), nil
		}
		return e.complete(ctx, sessionID, s, wf)

	case domain.IntentNegativeOrHelp:
		return e.presenter.Clarify(wf, s.StepIndex, MsgServiceClarify), nil

	default:
		return e.presenter.Step(wf, s.StepIndex), nil
	}
}

// complete finishes wf and either resumes the pending service or returns to selection.
func (e *Engine) complete(ctx context.Context, sessionID string, s *domain.SessionState, wf *domain.Workflow) (string, error) {
	summary := e.presenter.Completion(wf)
	s.MarkCompleted(wf.ID)
	e.emitWorkflow(ctx, e.hooks.OnWorkflowComplete, domain.EventWorkflowComplete, sessionID, wf.ID, "")

	if s.PendingWorkflow != "" {
		pending, err := e.catalog.Get(s.PendingWorkflow)
		if err != nil {
			return "", err
		}
		if isPrerequisite(pending, wf.ID) {
			// Several prerequisites are satisfied one after another; the pending slot is kept until all are met.
			if nextID := e.firstUnmet(pending, s); nextID != "" {
				prereq, err := e.catalog.Get(nextID)
				if err != nil {
					return "", err
				}
				s.ActiveWorkflow = prereq.ID
				s.StepIndex = 0
				e.emitWorkflow(ctx, e.hooks.OnWorkflowIntercept, domain.EventWorkflowIntercept, sessionID, prereq.ID, pending.ID)
				return joinParagraphs(summary, e.presenter.Interception(pending, prereq), e.presenter.Step(prereq, 0)), nil
			}

			s.PendingWorkflow = ""
			s.ActiveWorkflow = pending.ID
			s.StepIndex = 0
			e.emitWorkflow(ctx, e.hooks.OnWorkflowResume, domain.EventWorkflowResume, sessionID, pending.ID, wf.ID)
			return joinParagraphs(summary, e.presenter.Resumption(pending), e.presenter.Step(pending, 0)), nil
		}

		e.logger.Warn("dropping pending workflow unrelated to completed workflow",
			"session_id", sessionID,
			"pending", s.PendingWorkflow,
			"completed", wf.ID,
		)
		s.PendingWorkflow = ""
	}

	s.ActiveWorkflow = domain.SelectionWorkflowID
	s.StepIndex = 0
	return joinParagraphs(summary, MsgClosingPrompt), nil
}

// activeWorkflow resolves the active workflow and keeps StepIndex inside its bounds.
func (e *Engine) activeWorkflow(s *domain.SessionState) (*domain.Workflow, error) {
	wf, err := e.catalog.Get(s.ActiveWorkflow)
	if err != nil {
		return nil, fmt.Errorf("active workflow: %w", err)
	}
	if s.StepIndex < 0 || s.StepIndex >= len(wf.Steps) {
		clamped := max(0, min(s.StepIndex, len(wf.Steps)-1))
		e.logger.Warn("step index out of range, clamping",
			"workflow", wf.ID,
			"step", s.StepIndex,
			"clamped", clamped,
		)
		s.StepIndex = clamped
	}
	return wf, nil
}

// firstUnmet returns the first prerequisite of wf not yet completed.
// The bootstrap is satisfied by construction and never intercepts.
func (e *Engine) firstUnmet(wf *domain.Workflow, s *domain.SessionState) string {
	for _, p := range wf.Prerequisites {
		if p == e.catalog.Bootstrap() {
			continue
		}
		if !s.HasCompleted(p) {
			return p
		}
	}
	return ""
}

func isPrerequisite(wf *domain.Workflow, id string) bool {
	for _, p := range wf.Prerequisites {
		if p == id {
			return true
		}
	}
	return false
}

func (e *Engine) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, SessionID: sessionID}
}

func (e *Engine) emitWorkflow(ctx context.Context, hook func(context.Context, *domain.WorkflowEvent), t domain.EventType, sessionID, workflowID, related string) {
	e.logger.Info(string(t), "session_id", sessionID, "workflow", workflowID, "related", related)
	if hook == nil {
		return
	}
	hook(ctx, &domain.WorkflowEvent{
		EventBase:  e.event(t, sessionID),
		WorkflowID: workflowID,
		RelatedID:  related,
	})
}
