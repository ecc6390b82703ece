package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type variantDoc struct {
	ID           string    `bson:"_id"`
	ExperimentID string    `bson:"experiment_uuid"`
	Name         string    `bson:"name"`
	Description  string    `bson:"description"`
	Allocation   int       `bson:"allocation"`
	Participants []string  `bson:"participants"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d variantDoc) toDomain() *domain.Variant {
	participants := d.Participants
	if participants == nil {
		participants = []string{}
	}
	return &domain.Variant{
		ID:           d.ID,
		ExperimentID: d.ExperimentID,
		Name:         d.Name,
		Description:  d.Description,
		Allocation:   d.Allocation,
		Participants: participants,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type VariantRepository struct {
	coll *mongo.Collection
}

func NewVariantRepository(db *mongo.Database) *VariantRepository {
	return &VariantRepository{coll: db.Collection(variantsCollection)}
}

func (r *VariantRepository) Create(ctx context.Context, variant *domain.Variant) error {
	participants := variant.Participants
	if participants == nil {
		participants = []string{}
	}
	doc := variantDoc{
		ID:           variant.ID,
		ExperimentID: variant.ExperimentID,
		Name:         variant.Name,
		Description:  variant.Description,
		Allocation:   variant.Allocation,
		Participants: participants,
		CreatedAt:    variant.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: variant %q", domain.ErrAlreadyExists, variant.Name)
		}
		return fmt.Errorf("failed to insert variant: %w", err)
	}
	return nil
}

func (r *VariantRepository) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	var doc variantDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get variant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VariantRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Variant, error) {
	if len(ids) == 0 {
		return []*domain.Variant{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	var docs []variantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}

	byID := make(map[string]variantDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	out := make([]*domain.Variant, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d.toDomain())
		}
	}
	return out, nil
}

func (r *VariantRepository) UpdateAllocation(ctx context.Context, id string, allocation int) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"allocation": allocation}})
}

func (r *VariantRepository) UpdateDescription(ctx context.Context, id, description string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"description": description}})
}

func (r *VariantRepository) AddParticipant(ctx context.Context, variantID, participantID string) error {
	return r.update(ctx, variantID, bson.M{"$addToSet": bson.M{"participants": participantID}})
}

func (r *VariantRepository) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrVariantNotFound, id)
	}
	return nil
}
