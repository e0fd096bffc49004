package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/cvrguide/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(context.Context, string, *domain.SessionState) error { return nil }
func (nopStore) Load(context.Context, string) (*domain.SessionState, error) {
	return nil, domain.ErrSessionNotFound
}
func (nopStore) Delete(context.Context, string) error   { return nil }
func (nopStore) List(context.Context) ([]string, error) { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, domain.NewSessionState())
		_, _ = mgr.LoadOrStart(ctx, sid)
		_ = mgr.Delete(ctx, sid)
	}

	if n := len(mgr.locks); n != 0 {
		t.Errorf("memory leak detected: %d locks remaining after %d sessions", n, count)
	}
}
