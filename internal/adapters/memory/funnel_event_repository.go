package memory

import (
	"context"
	"sync"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type FunnelEventRepository struct {
	mu     sync.RWMutex
	events []domain.FunnelEvent
}

func NewFunnelEventRepository() *FunnelEventRepository {
	return &FunnelEventRepository{}
}

func (r *FunnelEventRepository) Create(ctx context.Context, event *domain.FunnelEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *event)
	return nil
}

func (r *FunnelEventRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.FunnelEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.FunnelEvent
	for i := range r.events {
		if r.events[i].SessionID == sessionID {
			e := r.events[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

// CountByStep follows the order of domain.FunnelSteps.
func (r *FunnelEventRepository) CountByStep(ctx context.Context) ([]domain.FunnelCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.FunnelStep]int64)
	for _, e := range r.events {
		counts[e.Step]++
	}
	var out []domain.FunnelCount
	for _, step := range domain.FunnelSteps {
		if n := counts[step]; n > 0 {
			out = append(out, domain.FunnelCount{Step: step, Count: n})
		}
	}
	return out, nil
}
