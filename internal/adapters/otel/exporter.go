package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

const (
	serviceName    = "abadmin"
	serviceVersion = "1.0.0"
)

// Exporter exports experiment activity to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	assignmentsTotal metric.Int64Counter
	transitionsTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	assignmentsTotal, err := meter.Int64Counter(
		"abadmin_assignments_total",
		metric.WithDescription("Participant placements by experiment, variant and reason"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating assignments counter: %w", err)
	}

	transitionsTotal, err := meter.Int64Counter(
		"abadmin_status_transitions_total",
		metric.WithDescription("Experiment lifecycle status changes"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		assignmentsTotal: assignmentsTotal,
		transitionsTotal: transitionsTotal,
	}, nil
}

// RecordAssignment counts one participant placement.
func (e *Exporter) RecordAssignment(ctx context.Context, exp *domain.Experiment, a domain.Assignment) {
	e.assignmentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("experiment.name", exp.Name),
		attribute.String("variant.name", a.VariantName("none")),
		attribute.String("reason", string(a.Reason)),
	))
}

// RecordTransition counts one lifecycle status change.
func (e *Exporter) RecordTransition(ctx context.Context, exp *domain.Experiment, from, to domain.ExperimentStatus) {
	e.transitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("experiment.name", exp.Name),
		attribute.String("status.from", string(from)),
		attribute.String("status.to", string(to)),
	))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
