package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type funnelEventDoc struct {
	ID         string    `bson:"_id"`
	SessionID  string    `bson:"session_uuid"`
	Step       string    `bson:"step"`
	OccurredAt time.Time `bson:"occurred_at"`
}

type FunnelEventRepository struct {
	coll *mongo.Collection
}

func NewFunnelEventRepository(db *mongo.Database) *FunnelEventRepository {
	return &FunnelEventRepository{coll: db.Collection(funnelCollection)}
}

func (r *FunnelEventRepository) Create(ctx context.Context, event *domain.FunnelEvent) error {
	doc := funnelEventDoc{
		ID:         event.ID,
		SessionID:  event.SessionID,
		Step:       string(event.Step),
		OccurredAt: event.OccurredAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert funnel event: %w", err)
	}
	return nil
}

func (r *FunnelEventRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.FunnelEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"session_uuid": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel events: %w", err)
	}
	var docs []funnelEventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode funnel events: %w", err)
	}

	out := make([]*domain.FunnelEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.FunnelEvent{
			ID:         d.ID,
			SessionID:  d.SessionID,
			Step:       domain.FunnelStep(d.Step),
			OccurredAt: d.OccurredAt.UTC(),
		})
	}
	return out, nil
}

func (r *FunnelEventRepository) CountByStep(ctx context.Context) ([]domain.FunnelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$step"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count funnel events: %w", err)
	}

	var rows []struct {
		Step  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode funnel counts: %w", err)
	}

	out := make([]domain.FunnelCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.FunnelCount{Step: domain.FunnelStep(row.Step), Count: row.Count})
	}
	return out, nil
}
