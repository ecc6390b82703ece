package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/util"
)

type FunnelEventRepository struct {
	db *sql.DB
}

func NewFunnelEventRepository(db *sql.DB) *FunnelEventRepository {
	return &FunnelEventRepository{db: db}
}

func (r *FunnelEventRepository) Create(ctx context.Context, event *domain.FunnelEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO funnel_events (id, session_id, step, occurred_at) VALUES (?, ?, ?, ?)`,
		event.ID, event.SessionID, string(event.Step), util.FormatTimeSQL(event.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create funnel event: %w", err)
	}
	return nil
}

func (r *FunnelEventRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.FunnelEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, step, occurred_at FROM funnel_events
		WHERE session_id = ?
		ORDER BY occurred_at, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel events: %w", err)
	}
	defer rows.Close()

	var out []*domain.FunnelEvent
	for rows.Next() {
		var e domain.FunnelEvent
		var step, occurredAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &step, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan funnel event: %w", err)
		}
		e.Step = domain.FunnelStep(step)
		e.OccurredAt = util.ParseTimeSQL(occurredAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *FunnelEventRepository) CountByStep(ctx context.Context) ([]domain.FunnelCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT step, COUNT(*) FROM funnel_events GROUP BY step ORDER BY step`)
	if err != nil {
		return nil, fmt.Errorf("failed to count funnel events: %w", err)
	}
	defer rows.Close()

	var out []domain.FunnelCount
	for rows.Next() {
		var step string
		var count sql.NullInt64
		if err := rows.Scan(&step, &count); err != nil {
			return nil, fmt.Errorf("failed to scan funnel count: %w", err)
		}
		out = append(out, domain.FunnelCount{Step: domain.FunnelStep(step), Count: count.Int64})
	}
	return out, rows.Err()
}
