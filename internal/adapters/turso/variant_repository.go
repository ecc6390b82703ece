package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/util"
)

const variantColumns = `id, experiment_id, name, description, allocation, created_at`

type VariantRepository struct {
	db *sql.DB
}

func NewVariantRepository(db *sql.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

func (r *VariantRepository) Create(ctx context.Context, variant *domain.Variant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO variants (`+variantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		variant.ID,
		variant.ExperimentID,
		variant.Name,
		variant.Description,
		variant.Allocation,
		util.FormatTimeSQL(variant.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: variant %q", domain.ErrAlreadyExists, variant.Name)
		}
		return fmt.Errorf("failed to create variant: %w", err)
	}

	for _, p := range variant.Participants {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO variant_participants (variant_id, participant_id)
			VALUES (?, ?)`, variant.ID, p); err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}
	}
	return tx.Commit()
}

func (r *VariantRepository) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	variants, err := r.ListByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, nil
	}
	return variants[0], nil
}

func (r *VariantRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Variant, error) {
	if len(ids) == 0 {
		return []*domain.Variant{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+variantColumns+` FROM variants WHERE id IN (`+placeholders(len(ids))+`)`,
		stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Variant, len(ids))
	for rows.Next() {
		var v domain.Variant
		var createdAt string
		if err := rows.Scan(&v.ID, &v.ExperimentID, &v.Name, &v.Description, &v.Allocation, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		v.CreatedAt = util.ParseTimeSQL(createdAt)
		v.Participants = []string{}
		byID[v.ID] = &v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadParticipants(ctx, byID); err != nil {
		return nil, err
	}

	out := make([]*domain.Variant, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *VariantRepository) loadParticipants(ctx context.Context, byID map[string]*domain.Variant) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT variant_id, participant_id FROM variant_participants
		WHERE variant_id IN (`+placeholders(len(ids))+`)
		ORDER BY rowid`, stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var variantID, participantID string
		if err := rows.Scan(&variantID, &participantID); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		v := byID[variantID]
		v.Participants = append(v.Participants, participantID)
	}
	return rows.Err()
}

func (r *VariantRepository) UpdateAllocation(ctx context.Context, id string, allocation int) error {
	return r.exec(ctx, id, `UPDATE variants SET allocation = ? WHERE id = ?`, allocation, id)
}

func (r *VariantRepository) UpdateDescription(ctx context.Context, id, description string) error {
	return r.exec(ctx, id, `UPDATE variants SET description = ? WHERE id = ?`, description, id)
}

func (r *VariantRepository) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrVariantNotFound, id)
	}
	return nil
}

// AddParticipant is retried on stream errors since it runs on every new visit.
func (r *VariantRepository) AddParticipant(ctx context.Context, variantID, participantID string) error {
	_, err := WithRetry(ctx, 2, func() (struct{}, error) {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM variants WHERE id = ?`, variantID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return struct{}{}, fmt.Errorf("%w: %s", domain.ErrVariantNotFound, variantID)
		}
		if err != nil {
			return struct{}{}, err
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO variant_participants (variant_id, participant_id)
			VALUES (?, ?)`, variantID, participantID)
		return struct{}{}, err
	})
	if err != nil && !errors.Is(err, domain.ErrVariantNotFound) {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return err
}
