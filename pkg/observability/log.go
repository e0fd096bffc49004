package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cvrguide/pkg/domain"
)

// LogHooks writes an audit line per turn, including the state diff.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.InfoContext(ctx, "turn",
				"session_id", e.SessionID,
				"mode", e.Mode,
				"intent", e.Intent,
				"workflow", e.Workflow,
				"diff", e.Diff,
			)
		},
	}
}
