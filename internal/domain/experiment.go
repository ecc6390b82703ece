package domain

import "time"

type Experiment struct {
	ID          string
	Name        string
	Description string
	Status      ExperimentStatus
	VariantIDs  []string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// NewExperiment returns a draft experiment with no variants.
func NewExperiment(id, name, description string, now time.Time) *Experiment {
	return &Experiment{
		ID:          id,
		Name:        name,
		Description: description,
		Status:      StatusDraft,
		VariantIDs:  []string{},
		CreatedAt:   now,
	}
}

// Apply moves the experiment through its lifecycle. The first start stamps
// StartDate and reaching a terminal status stamps EndDate.
func (e *Experiment) Apply(action Action, now time.Time) (changed bool, err error) {
	next, changed, err := NextStatus(e.Status, action)
	if err != nil || !changed {
		return false, err
	}

	if next == StatusRunning && e.StartDate == nil {
		t := now
		e.StartDate = &t
	}
	if next.Terminal() {
		t := now
		e.EndDate = &t
	}
	e.Status = next
	return true, nil
}

// HasVariant reports whether variantID is referenced by the experiment.
func (e *Experiment) HasVariant(variantID string) bool {
	for _, id := range e.VariantIDs {
		if id == variantID {
			return true
		}
	}
	return false
}
