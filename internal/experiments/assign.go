package experiments

import (
	"context"
	"fmt"
	"strings"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// Assign places a participant in one of the experiment's variants.
//
// A non-empty override naming an existing variant wins and is not persisted.
// A participant already enrolled keeps its variant. New participants are only
// enrolled while the experiment is running: a weighted draw over allocations,
// or the control variant when every allocation is zero.
func (s *Service) Assign(ctx context.Context, experimentID, participantID, override string) (domain.Assignment, error) {
	a := domain.Assignment{ExperimentID: experimentID, ParticipantID: participantID}
	if strings.TrimSpace(participantID) == "" {
		return a, domain.ErrEmptyParticipantID
	}

	exp, err := s.Get(ctx, experimentID)
	if err != nil {
		return a, err
	}
	variants, err := s.Variants(ctx, exp)
	if err != nil {
		return a, err
	}

	if override = strings.TrimSpace(override); override != "" {
		v := domain.FindVariantByName(variants, override)
		if v == nil {
			return a, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, override)
		}
		a.Variant, a.Reason = v, domain.ReasonOverride
		return a, nil
	}

	if !exp.Status.InProgress() {
		a.Reason = domain.ReasonInactive
		return a, nil
	}

	if v := domain.FindParticipantVariant(variants, participantID); v != nil {
		a.Variant, a.Reason = v, domain.ReasonExisting
		return a, nil
	}

	if !exp.Status.AcceptsParticipants() {
		a.Reason = domain.ReasonInactive
		return a, nil
	}

	if len(variants) == 0 {
		return a, fmt.Errorf("%w: %s", domain.ErrNoVariants, exp.Name)
	}

	var chosen *domain.Variant
	if domain.TotalAllocation(variants) == 0 {
		chosen, a.Reason = domain.ControlVariant(variants, s.controlName), domain.ReasonControlFallback
	} else {
		weights := make([]int, len(variants))
		for i, v := range variants {
			weights[i] = v.Allocation
		}
		idx := s.sampler.Pick(weights)
		if idx < 0 || idx >= len(variants) {
			return a, fmt.Errorf("sampler returned index %d for %d variants", idx, len(variants))
		}
		chosen, a.Reason = variants[idx], domain.ReasonDrawn
	}

	if err := s.variants.AddParticipant(ctx, chosen.ID, participantID); err != nil {
		return a, fmt.Errorf("failed to record participant: %w", err)
	}
	chosen.AddParticipant(participantID)
	a.Variant = chosen

	s.metrics.RecordAssignment(ctx, exp, a)
	return a, nil
}
