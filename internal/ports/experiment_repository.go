package ports

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// ExperimentRepository stores experiments. Reads return (nil, nil) when the
// experiment does not exist.
type ExperimentRepository interface {
	Create(ctx context.Context, experiment *domain.Experiment) error
	GetByID(ctx context.Context, id string) (*domain.Experiment, error)
	GetByName(ctx context.Context, name string) (*domain.Experiment, error)
	List(ctx context.Context) ([]*domain.Experiment, error)
	Update(ctx context.Context, experiment *domain.Experiment) error
	// AddVariant appends variantID to the experiment's variant references once.
	AddVariant(ctx context.Context, experimentID, variantID string) error
}
