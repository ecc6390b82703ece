package ports

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// MetricsRecorder reports experiment activity to an external observability system.
type MetricsRecorder interface {
	// RecordAssignment counts one participant placement.
	RecordAssignment(ctx context.Context, experiment *domain.Experiment, assignment domain.Assignment)
	// RecordTransition counts one lifecycle status change.
	RecordTransition(ctx context.Context, experiment *domain.Experiment, from, to domain.ExperimentStatus)
	// Close shuts down the recorder and flushes any pending metrics.
	Close(ctx context.Context) error
}
