package cvrguide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/cvrguide/internal/logging"
	"github.com/aretw0/cvrguide/internal/runtime"
	"github.com/aretw0/cvrguide/pkg/adapters/memory"
	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/aretw0/cvrguide/pkg/domain"
	"github.com/aretw0/cvrguide/pkg/input"
	"github.com/aretw0/cvrguide/pkg/ports"
	"github.com/aretw0/cvrguide/pkg/session"
)

// ReplyReset acknowledges a conversation reset.
const ReplyReset = "Conversation reset. How can I help you with INEC CVR services today?"

// ErrEmptySessionID is returned when a caller does not identify the conversation.
var ErrEmptySessionID = errors.New("session id is required")

// Engine is the high-level entry point: one call per user message.
// It wraps the internal runtime with input policy, per-session locking and persistence.
type Engine struct {
	runtime  *runtime.Engine
	catalog  ports.GuideCatalog
	sessions *session.Manager

	store    ports.SessionStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	maxInput int
	clock    func() time.Time
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog replaces the embedded INEC catalog.
func WithCatalog(c ports.GuideCatalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithStore sets the session store. Defaults to an in-memory store.
func WithStore(s ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes turns across replicas, holding each lock for at most ttl.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithMaxInputSize bounds the accepted message size in bytes.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInput = n
	}
}

// WithClock overrides the time source stamped on session state.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine. Without options it guides through the embedded
// catalog and keeps sessions in memory.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.catalog == nil {
		eng.catalog = catalog.Default()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.clock != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithClock(eng.clock))
	}
	rt, err := runtime.NewEngine(eng.catalog, runtimeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize runtime: %w", err)
	}
	eng.runtime = rt

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithFactory(rt.NewSession),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker), session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng, nil
}

// HandleMessage runs one conversation turn and returns the reply.
// Raw text is sanitized and normalized here; text that fails sanitization is
// treated as an empty message. Turns for the same session are serialized.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, text string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}

	msg, err := input.Prepare(text, e.maxInput)
	if err != nil {
		e.logger.Warn("input rejected", "session_id", sessionID, "size", len(text), "err", err)
		msg = ""
	}

	var reply string
	err = e.sessions.Update(ctx, sessionID, func(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
		turn, err := e.runtime.Step(ctx, sessionID, state, msg)
		if err != nil {
			return nil, err
		}
		reply = turn.Reply
		return turn.State, nil
	})
	if err != nil {
		return "", fmt.Errorf("session %s: %w", sessionID, err)
	}
	return reply, nil
}

// ResetSession discards a conversation; the next message starts over at the bootstrap.
func (e *Engine) ResetSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	return e.sessions.Delete(ctx, sessionID)
}

// Current renders what the session is waiting on without transitioning,
// creating the session if needed. Used to greet a resumed terminal chat.
func (e *Engine) Current(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}
	state, err := e.sessions.LoadOrStart(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return e.runtime.Current(state)
}

// Inspect returns the stored state of a session.
func (e *Engine) Inspect(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return e.sessions.Load(ctx, sessionID)
}

// Sessions lists stored session ids.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Catalog returns the guide catalog in use.
func (e *Engine) Catalog() ports.GuideCatalog {
	return e.catalog
}

// Mode reports the state machine mode of a session state.
func (e *Engine) Mode(state *domain.SessionState) domain.Mode {
	return e.runtime.Mode(state)
}
