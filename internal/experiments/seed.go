package experiments

import (
	"context"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

const (
	ButtonExperimentName        = "Button Color + Text Experiment"
	buttonExperimentDescription = "Increase engagement by changing the color and text of the button"
	buttonVariantDescription    = "variations on how to display the button"
)

// ButtonVariantNames are the arms of the demo landing page experiment.
var ButtonVariantNames = []string{
	"red_no_text",
	"red_with_text",
	"blue_no_text",
	"blue_with_text",
	"control",
}

// SeedResult describes a seeded demo experiment.
type SeedResult struct {
	Experiment     *domain.Experiment
	Variants       []*domain.Variant
	ParticipantIDs []string
}

// SeedButtonExperiment creates the landing page experiment and spreads
// participants round-robin across its variants.
func (s *Service) SeedButtonExperiment(ctx context.Context, participants int) (*SeedResult, error) {
	if participants < 0 {
		return nil, fmt.Errorf("participant count must not be negative, got %d", participants)
	}

	exp, err := s.CreateExperiment(ctx, ButtonExperimentName, buttonExperimentDescription)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{}
	for _, name := range ButtonVariantNames {
		v, err := s.AddVariant(ctx, exp.ID, name, buttonVariantDescription, domain.DefaultAllocation)
		if err != nil {
			return nil, err
		}
		result.Variants = append(result.Variants, v)
	}
	if result.Experiment, err = s.Get(ctx, exp.ID); err != nil {
		return nil, err
	}

	for i := 0; i < participants; i++ {
		id := s.newID()
		err := s.participants.Create(ctx, &domain.Participant{ID: id, CreatedAt: s.now()})
		if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}

		v := result.Variants[i%len(result.Variants)]
		if err := s.variants.AddParticipant(ctx, v.ID, id); err != nil {
			return nil, fmt.Errorf("failed to record participant: %w", err)
		}
		v.AddParticipant(id)
		result.ParticipantIDs = append(result.ParticipantIDs, id)
	}
	return result, nil
}
