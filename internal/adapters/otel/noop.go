package otel

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

// NoOpExporter is a metrics recorder that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordAssignment(context.Context, *domain.Experiment, domain.Assignment) {}

func (e *NoOpExporter) RecordTransition(context.Context, *domain.Experiment, domain.ExperimentStatus, domain.ExperimentStatus) {
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
