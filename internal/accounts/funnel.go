package accounts

import (
	"context"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

func (s *Service) RecordFunnelEvent(ctx context.Context, sessionID string, step domain.FunnelStep) error {
	if sessionID == "" {
		return domain.ErrEmptyParticipantID
	}
	if _, err := domain.ParseFunnelStep(string(step)); err != nil {
		return err
	}

	event := &domain.FunnelEvent{
		ID:         s.newID(),
		SessionID:  sessionID,
		Step:       step,
		OccurredAt: s.now(),
	}
	if err := s.funnel.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to record funnel event: %w", err)
	}
	return nil
}

// FunnelCounts returns one count per funnel step, in funnel order, including
// steps with no events.
func (s *Service) FunnelCounts(ctx context.Context) ([]domain.FunnelCount, error) {
	counts, err := s.funnel.CountByStep(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count funnel events: %w", err)
	}

	byStep := make(map[domain.FunnelStep]int64, len(counts))
	for _, c := range counts {
		byStep[c.Step] += c.Count
	}
	out := make([]domain.FunnelCount, len(domain.FunnelSteps))
	for i, step := range domain.FunnelSteps {
		out[i] = domain.FunnelCount{Step: step, Count: byStep[step]}
	}
	return out, nil
}

func (s *Service) SessionEvents(ctx context.Context, sessionID string) ([]*domain.FunnelEvent, error) {
	events, err := s.funnel.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel events: %w", err)
	}
	return events, nil
}
