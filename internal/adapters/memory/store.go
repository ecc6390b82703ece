// Package memory keeps every repository in process memory. It backs the
// memory store driver and the service tests.
package memory

import (
	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/ports"
)

// NewRepositories returns a fresh, empty set of in-memory repositories.
func NewRepositories() *ports.Repositories {
	return &ports.Repositories{
		Experiments:  NewExperimentRepository(),
		Variants:     NewVariantRepository(),
		Participants: NewParticipantRepository(),
		Users:        NewUserRepository(),
		FunnelEvents: NewFunnelEventRepository(),
	}
}

func copyExperiment(e *domain.Experiment) *domain.Experiment {
	c := *e
	c.VariantIDs = append([]string{}, e.VariantIDs...)
	if e.StartDate != nil {
		t := *e.StartDate
		c.StartDate = &t
	}
	if e.EndDate != nil {
		t := *e.EndDate
		c.EndDate = &t
	}
	return &c
}

func copyVariant(v *domain.Variant) *domain.Variant {
	c := *v
	c.Participants = append([]string{}, v.Participants...)
	return &c
}

func copyParticipant(p *domain.Participant) *domain.Participant {
	c := *p
	if p.UserID != nil {
		id := *p.UserID
		c.UserID = &id
	}
	return &c
}
