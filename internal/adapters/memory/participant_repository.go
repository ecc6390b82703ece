package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type ParticipantRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Participant
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{byID: make(map[string]*domain.Participant)}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[participant.ID]; ok {
		return fmt.Errorf("%w: participant %s", domain.ErrAlreadyExists, participant.ID)
	}
	r.byID[participant.ID] = copyParticipant(participant)
	return nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return copyParticipant(p), nil
}

func (r *ParticipantRepository) LinkUser(ctx context.Context, participantID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[participantID]
	if !ok {
		return fmt.Errorf("%w: participant %s", domain.ErrNotFound, participantID)
	}
	p.UserID = &userID
	return nil
}
