package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/util"
)

const experimentColumns = `id, name, description, status, start_date, end_date, created_at`

type ExperimentRepository struct {
	db *sql.DB
}

func NewExperimentRepository(db *sql.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

func (r *ExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experiments (`+experimentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		experiment.ID,
		experiment.Name,
		experiment.Description,
		string(experiment.Status),
		util.NullTime(experiment.StartDate),
		util.NullTime(experiment.EndDate),
		util.FormatTimeSQL(experiment.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: experiment %q", domain.ErrAlreadyExists, experiment.Name)
		}
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	return nil
}

func (r *ExperimentRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	return r.getOne(ctx, `SELECT `+experimentColumns+` FROM experiments WHERE id = ?`, id)
}

func (r *ExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	return r.getOne(ctx, `SELECT `+experimentColumns+` FROM experiments WHERE name = ?`, name)
}

func (r *ExperimentRepository) getOne(ctx context.Context, query string, arg string) (*domain.Experiment, error) {
	exp, err := scanExperiment(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM variants
		WHERE experiment_id = ? AND position IS NOT NULL
		ORDER BY position`, exp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variant ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan variant id: %w", err)
		}
		exp.VariantIDs = append(exp.VariantIDs, id)
	}
	return exp, rows.Err()
}

func (r *ExperimentRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+experimentColumns+` FROM experiments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Experiment
	byID := make(map[string]*domain.Experiment)
	for rows.Next() {
		exp, err := scanExperiment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		out = append(out, exp)
		byID[exp.ID] = exp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	vrows, err := r.db.QueryContext(ctx, `
		SELECT experiment_id, id FROM variants
		WHERE position IS NOT NULL
		ORDER BY experiment_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list variant ids: %w", err)
	}
	defer vrows.Close()

	for vrows.Next() {
		var expID, id string
		if err := vrows.Scan(&expID, &id); err != nil {
			return nil, fmt.Errorf("failed to scan variant id: %w", err)
		}
		if exp, ok := byID[expID]; ok {
			exp.VariantIDs = append(exp.VariantIDs, id)
		}
	}
	return out, vrows.Err()
}

func (r *ExperimentRepository) Update(ctx context.Context, experiment *domain.Experiment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE experiments
		SET name = ?, description = ?, status = ?, start_date = ?, end_date = ?
		WHERE id = ?`,
		experiment.Name,
		experiment.Description,
		string(experiment.Status),
		util.NullTime(experiment.StartDate),
		util.NullTime(experiment.EndDate),
		experiment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, experiment.ID)
	}
	return nil
}

// AddVariant gives an unattached variant of the experiment the next position.
func (r *ExperimentRepository) AddVariant(ctx context.Context, experimentID, variantID string) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM experiments WHERE id = ?`, experimentID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, experimentID)
	}
	if err != nil {
		return fmt.Errorf("failed to get experiment: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE variants
		SET position = (SELECT COALESCE(MAX(position), 0) + 1 FROM variants WHERE experiment_id = ?)
		WHERE id = ? AND experiment_id = ? AND position IS NULL`,
		experimentID, variantID, experimentID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach variant: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM variants WHERE id = ? AND experiment_id = ?`, variantID, experimentID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrVariantNotFound, variantID)
	}
	if err != nil {
		return fmt.Errorf("failed to get variant: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperiment(row rowScanner) (*domain.Experiment, error) {
	var (
		exp                domain.Experiment
		status, createdAt  string
		startDate, endDate sql.NullString
	)
	if err := row.Scan(&exp.ID, &exp.Name, &exp.Description, &status, &startDate, &endDate, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseExperimentStatus(status)
	if err != nil {
		return nil, err
	}
	exp.Status = parsed
	exp.StartDate = util.NullTimeToPtr(startDate)
	exp.EndDate = util.NullTimeToPtr(endDate)
	exp.CreatedAt = util.ParseTimeSQL(createdAt)
	exp.VariantIDs = []string{}
	return &exp, nil
}
