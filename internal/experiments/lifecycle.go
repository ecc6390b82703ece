package experiments

import (
	"context"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// Transition applies a lifecycle action. Actions that leave the status
// unchanged are accepted without writing; actions out of a terminal status,
// or Pause before the experiment started, fail with domain.ErrInvalidTransition.
func (s *Service) Transition(ctx context.Context, experimentID string, action domain.Action) (*domain.Experiment, error) {
	exp, err := s.Get(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	from := exp.Status
	changed, err := exp.Apply(action, s.now())
	if err != nil {
		return exp, err
	}
	if !changed {
		return exp, nil
	}

	if err := s.experiments.Update(ctx, exp); err != nil {
		return nil, fmt.Errorf("failed to update experiment: %w", err)
	}
	s.metrics.RecordTransition(ctx, exp, from, exp.Status)
	return exp, nil
}
