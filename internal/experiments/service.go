// Package experiments holds the A/B testing use cases: experiment and variant
// management, participant assignment and lifecycle control.
package experiments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/ports"
)

// DefaultControlVariant is the variant name used when total allocation is zero.
const DefaultControlVariant = "control"

// Service coordinates experiment use cases over the repository ports.
type Service struct {
	experiments  ports.ExperimentRepository
	variants     ports.VariantRepository
	participants ports.ParticipantRepository
	metrics      ports.MetricsRecorder
	sampler      Sampler
	controlName  string
	now          func() time.Time
	newID        func() string
}

type Option func(*Service)

// WithSampler replaces the process-wide random sampler.
func WithSampler(sampler Sampler) Option {
	return func(s *Service) {
		if sampler != nil {
			s.sampler = sampler
		}
	}
}

func WithMetrics(metrics ports.MetricsRecorder) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

func WithControlVariant(name string) Option {
	return func(s *Service) {
		if name = strings.TrimSpace(name); name != "" {
			s.controlName = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService creates a new experiments service
func NewService(
	experiments ports.ExperimentRepository,
	variants ports.VariantRepository,
	participants ports.ParticipantRepository,
	opts ...Option,
) *Service {
	s := &Service{
		experiments:  experiments,
		variants:     variants,
		participants: participants,
		metrics:      nopMetrics{},
		sampler:      RandomSampler{},
		controlName:  DefaultControlVariant,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the experiment with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Experiment, error) {
	exp, err := s.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, id)
	}
	return exp, nil
}

// Resolve looks an experiment up by ID, then by name.
func (s *Service) Resolve(ctx context.Context, ref string) (*domain.Experiment, error) {
	exp, err := s.experiments.GetByID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}
	if exp != nil {
		return exp, nil
	}
	exp, err = s.experiments.GetByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment by name: %w", err)
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, ref)
	}
	return exp, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Experiment, error) {
	exps, err := s.experiments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	return exps, nil
}

// CreateExperiment stores a new draft experiment. Names are unique.
func (s *Service) CreateExperiment(ctx context.Context, name, description string) (*domain.Experiment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	existing, err := s.experiments.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check experiment name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: experiment %q", domain.ErrDuplicateName, name)
	}

	exp := domain.NewExperiment(s.newID(), name, strings.TrimSpace(description), s.now())
	if err := s.experiments.Create(ctx, exp); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: experiment %q", domain.ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("failed to create experiment: %w", err)
	}
	return exp, nil
}

// AddVariant creates a variant and attaches it to the experiment. Variant
// names are unique within one experiment.
func (s *Service) AddVariant(ctx context.Context, experimentID, name, description string, allocation int) (*domain.Variant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if allocation < 0 {
		return nil, domain.ErrNegativeAllocation
	}

	exp, err := s.Get(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	current, err := s.variants.ListByIDs(ctx, exp.VariantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	if domain.FindVariantByName(current, name) != nil {
		return nil, fmt.Errorf("%w: variant %q", domain.ErrDuplicateName, name)
	}

	variant := &domain.Variant{
		ID:           s.newID(),
		ExperimentID: exp.ID,
		Name:         name,
		Description:  strings.TrimSpace(description),
		Allocation:   allocation,
		Participants: []string{},
		CreatedAt:    s.now(),
	}
	if err := s.variants.Create(ctx, variant); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}
	if err := s.experiments.AddVariant(ctx, exp.ID, variant.ID); err != nil {
		return nil, fmt.Errorf("failed to attach variant: %w", err)
	}
	return variant, nil
}

// Variants returns the experiment's variants in the order they were added.
func (s *Service) Variants(ctx context.Context, exp *domain.Experiment) ([]*domain.Variant, error) {
	variants, err := s.variants.ListByIDs(ctx, exp.VariantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

// Summary is an experiment with the expected and observed share of each variant.
type Summary struct {
	Experiment        *domain.Experiment
	Variants          []domain.VariantShare
	TotalAllocation   int
	TotalParticipants int
}

func (s *Service) Summary(ctx context.Context, experimentID string) (*Summary, error) {
	exp, err := s.Get(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	variants, err := s.Variants(ctx, exp)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Experiment:      exp,
		Variants:        domain.Shares(variants),
		TotalAllocation: domain.TotalAllocation(variants),
	}
	for _, v := range variants {
		summary.TotalParticipants += len(v.Participants)
	}
	return summary, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordAssignment(context.Context, *domain.Experiment, domain.Assignment) {}

func (nopMetrics) RecordTransition(context.Context, *domain.Experiment, domain.ExperimentStatus, domain.ExperimentStatus) {
}

func (nopMetrics) Close(context.Context) error { return nil }
