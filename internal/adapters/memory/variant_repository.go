package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type VariantRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Variant
}

func NewVariantRepository() *VariantRepository {
	return &VariantRepository{byID: make(map[string]*domain.Variant)}
}

func (r *VariantRepository) Create(ctx context.Context, variant *domain.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[variant.ID]; ok {
		return fmt.Errorf("%w: variant %s", domain.ErrAlreadyExists, variant.ID)
	}
	for _, v := range r.byID {
		if v.ExperimentID == variant.ExperimentID && v.Name == variant.Name {
			return fmt.Errorf("%w: variant %q", domain.ErrAlreadyExists, variant.Name)
		}
	}
	r.byID[variant.ID] = copyVariant(variant)
	return nil
}

func (r *VariantRepository) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return copyVariant(v), nil
}

func (r *VariantRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Variant, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.byID[id]; ok {
			out = append(out, copyVariant(v))
		}
	}
	return out, nil
}

func (r *VariantRepository) UpdateAllocation(ctx context.Context, id string, allocation int) error {
	return r.update(id, func(v *domain.Variant) { v.Allocation = allocation })
}

func (r *VariantRepository) UpdateDescription(ctx context.Context, id, description string) error {
	return r.update(id, func(v *domain.Variant) { v.Description = description })
}

func (r *VariantRepository) AddParticipant(ctx context.Context, variantID, participantID string) error {
	return r.update(variantID, func(v *domain.Variant) { v.AddParticipant(participantID) })
}

func (r *VariantRepository) update(id string, fn func(*domain.Variant)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrVariantNotFound, id)
	}
	fn(v)
	return nil
}
