package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/util"
)

type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (id, user_id, created_at) VALUES (?, ?, ?)`,
		participant.ID,
		util.NullStringPtr(participant.UserID),
		util.FormatTimeSQL(participant.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: participant %s", domain.ErrAlreadyExists, participant.ID)
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	var (
		p         domain.Participant
		userID    sql.NullString
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, created_at FROM participants WHERE id = ?`, id).
		Scan(&p.ID, &userID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	p.UserID = util.NullStringToPtr(userID)
	p.CreatedAt = util.ParseTimeSQL(createdAt)
	return &p, nil
}

func (r *ParticipantRepository) LinkUser(ctx context.Context, participantID, userID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE participants SET user_id = ? WHERE id = ?`, userID, participantID)
	if err != nil {
		return fmt.Errorf("failed to link participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: participant %s", domain.ErrNotFound, participantID)
	}
	return nil
}
