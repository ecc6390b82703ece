package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type ExperimentRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Experiment
	order []string
}

func NewExperimentRepository() *ExperimentRepository {
	return &ExperimentRepository{byID: make(map[string]*domain.Experiment)}
}

func (r *ExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[experiment.ID]; ok {
		return fmt.Errorf("%w: experiment %s", domain.ErrAlreadyExists, experiment.ID)
	}
	for _, e := range r.byID {
		if e.Name == experiment.Name {
			return fmt.Errorf("%w: experiment %q", domain.ErrAlreadyExists, experiment.Name)
		}
	}
	r.byID[experiment.ID] = copyExperiment(experiment)
	r.order = append(r.order, experiment.ID)
	return nil
}

func (r *ExperimentRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return copyExperiment(e), nil
}

func (r *ExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if e := r.byID[id]; e.Name == name {
			return copyExperiment(e), nil
		}
	}
	return nil, nil
}

func (r *ExperimentRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Experiment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyExperiment(r.byID[id]))
	}
	return out, nil
}

func (r *ExperimentRepository) Update(ctx context.Context, experiment *domain.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[experiment.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, experiment.ID)
	}
	r.byID[experiment.ID] = copyExperiment(experiment)
	return nil
}

func (r *ExperimentRepository) AddVariant(ctx context.Context, experimentID, variantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[experimentID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, experimentID)
	}
	if !slices.Contains(e.VariantIDs, variantID) {
		e.VariantIDs = append(e.VariantIDs, variantID)
	}
	return nil
}
