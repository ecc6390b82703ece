package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// EnsureParticipant returns the participant for a session token, creating it
// on first sight.
func (s *Service) EnsureParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrEmptyParticipantID
	}

	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if p != nil {
		return p, nil
	}

	p = &domain.Participant{ID: id, CreatedAt: s.now()}
	if err := s.participants.Create(ctx, p); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}
		// Another request for the same session got there first.
		if p, err = s.participants.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to get participant: %w", err)
		}
	}
	return p, nil
}

// LinkUser ties a session participant to a user account. Linking the same
// pair again is a no-op; relinking to another user is refused.
func (s *Service) LinkUser(ctx context.Context, participantID, userID string) error {
	p, err := s.EnsureParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if p.UserID != nil {
		if *p.UserID == userID {
			return nil
		}
		return fmt.Errorf("%w: participant %s", domain.ErrAlreadyLinked, participantID)
	}

	if err := s.participants.LinkUser(ctx, participantID, userID); err != nil {
		return fmt.Errorf("failed to link participant: %w", err)
	}
	return nil
}
