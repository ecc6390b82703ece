package ports

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// VariantRepository stores experiment variants and their participant sets.
type VariantRepository interface {
	Create(ctx context.Context, variant *domain.Variant) error
	GetByID(ctx context.Context, id string) (*domain.Variant, error)
	// ListByIDs returns the variants in the order of ids, skipping unknown ids.
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Variant, error)
	UpdateAllocation(ctx context.Context, id string, allocation int) error
	UpdateDescription(ctx context.Context, id, description string) error
	// AddParticipant adds participantID to the variant's set; repeats are no-ops.
	AddParticipant(ctx context.Context, variantID, participantID string) error
}
