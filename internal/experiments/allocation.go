package experiments

import (
	"context"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// AllocationUpdate is one variant row of the allocation form.
type AllocationUpdate struct {
	VariantID   string
	Allocation  int
	Description *string
}

// UpdateAllocations validates every update before writing any of them.
// Values are stored as given.
func (s *Service) UpdateAllocations(ctx context.Context, experimentID string, updates []AllocationUpdate) error {
	exp, err := s.Get(ctx, experimentID)
	if err != nil {
		return err
	}

	for _, u := range updates {
		if u.Allocation < 0 {
			return fmt.Errorf("%w: variant %s", domain.ErrNegativeAllocation, u.VariantID)
		}
		if !exp.HasVariant(u.VariantID) {
			return fmt.Errorf("%w: %s", domain.ErrVariantNotFound, u.VariantID)
		}
	}

	for _, u := range updates {
		if err := s.variants.UpdateAllocation(ctx, u.VariantID, u.Allocation); err != nil {
			return fmt.Errorf("failed to update allocation: %w", err)
		}
		if u.Description != nil {
			if err := s.variants.UpdateDescription(ctx, u.VariantID, *u.Description); err != nil {
				return fmt.Errorf("failed to update description: %w", err)
			}
		}
	}
	return nil
}
