package ports

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type ParticipantRepository interface {
	// Create returns domain.ErrAlreadyExists when the participant is known.
	Create(ctx context.Context, participant *domain.Participant) error
	GetByID(ctx context.Context, id string) (*domain.Participant, error)
	LinkUser(ctx context.Context, participantID, userID string) error
}
