package ports

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type FunnelEventRepository interface {
	Create(ctx context.Context, event *domain.FunnelEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.FunnelEvent, error)
	// CountByStep returns one entry per step that has events.
	CountByStep(ctx context.Context) ([]domain.FunnelCount, error)
}
