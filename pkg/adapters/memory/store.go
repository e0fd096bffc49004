package memory

import (
	"context"
	"slices"
	"time"

	"github.com/aretw0/cvrguide/pkg/domain"
	gocache "github.com/patrickmn/go-cache"
)

// Store implements ports.SessionStore in process memory.
// Safe for concurrent use. State does not survive a restart.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// Option configures the Store.
type Option func(*storeConfig)

type storeConfig struct {
	ttl     time.Duration
	cleanup time.Duration
}

// WithTTL expires sessions idle for longer than ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired sessions are purged.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *storeConfig) {
		c.cleanup = d
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	cfg := storeConfig{cleanup: 10 * time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	ttl := cfg.ttl
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Store{
		cache: gocache.New(ttl, cfg.cleanup),
		ttl:   ttl,
	}
}

// Save persists a copy of the state, refreshing its expiry.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	s.cache.Set(sessionID, state.Clone(), s.ttl)
	return nil
}

// Load returns a copy, so callers can't mutate stored state by pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	v, found := s.cache.Get(sessionID)
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return v.(*domain.SessionState).Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

// List returns the live sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	items := s.cache.Items()
	sessions := make([]string, 0, len(items))
	for id := range items {
		sessions = append(sessions, id)
	}
	slices.Sort(sessions)
	return sessions, nil
}
