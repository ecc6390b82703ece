package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type experimentDoc struct {
	ID          string     `bson:"_id"`
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	Status      string     `bson:"experiment_status"`
	VariantIDs  []string   `bson:"experiment_variants"`
	StartDate   *time.Time `bson:"start_date"`
	EndDate     *time.Time `bson:"end_date"`
	CreatedAt   time.Time  `bson:"created_at"`
}

func experimentToDoc(e *domain.Experiment) experimentDoc {
	ids := e.VariantIDs
	if ids == nil {
		ids = []string{}
	}
	return experimentDoc{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Status:      string(e.Status),
		VariantIDs:  ids,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CreatedAt:   e.CreatedAt,
	}
}

func (d experimentDoc) toDomain() (*domain.Experiment, error) {
	status, err := domain.ParseExperimentStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("experiment %s: %w", d.ID, err)
	}
	ids := d.VariantIDs
	if ids == nil {
		ids = []string{}
	}
	return &domain.Experiment{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Status:      status,
		VariantIDs:  ids,
		StartDate:   utcPtr(d.StartDate),
		EndDate:     utcPtr(d.EndDate),
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

type ExperimentRepository struct {
	coll *mongo.Collection
}

func NewExperimentRepository(db *mongo.Database) *ExperimentRepository {
	return &ExperimentRepository{coll: db.Collection(experimentsCollection)}
}

func (r *ExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment) error {
	if _, err := r.coll.InsertOne(ctx, experimentToDoc(experiment)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: experiment %q", domain.ErrAlreadyExists, experiment.Name)
		}
		return fmt.Errorf("failed to insert experiment: %w", err)
	}
	return nil
}

func (r *ExperimentRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ExperimentRepository) GetByName(ctx context.Context, name string) (*domain.Experiment, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *ExperimentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Experiment, error) {
	var doc experimentDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}
	return doc.toDomain()
}

func (r *ExperimentRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	var docs []experimentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode experiments: %w", err)
	}

	out := make([]*domain.Experiment, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Update writes the experiment's scalar fields. Variant references are only
// changed through AddVariant.
func (r *ExperimentRepository) Update(ctx context.Context, experiment *domain.Experiment) error {
	d := experimentToDoc(experiment)
	res, err := r.coll.UpdateByID(ctx, d.ID, bson.M{"$set": bson.M{
		"name":              d.Name,
		"description":       d.Description,
		"experiment_status": d.Status,
		"start_date":        d.StartDate,
		"end_date":          d.EndDate,
	}})
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, d.ID)
	}
	return nil
}

func (r *ExperimentRepository) AddVariant(ctx context.Context, experimentID, variantID string) error {
	res, err := r.coll.UpdateByID(ctx, experimentID, bson.M{
		"$addToSet": bson.M{"experiment_variants": variantID},
	})
	if err != nil {
		return fmt.Errorf("failed to add variant to experiment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrExperimentNotFound, experimentID)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
