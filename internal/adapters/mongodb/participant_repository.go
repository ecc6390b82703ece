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

type participantDoc struct {
	ID        string    `bson:"_id"`
	UserID    *string   `bson:"user_uuid,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type ParticipantRepository struct {
	coll *mongo.Collection
}

func NewParticipantRepository(db *mongo.Database) *ParticipantRepository {
	return &ParticipantRepository{coll: db.Collection(participantsCollection)}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	doc := participantDoc{ID: participant.ID, UserID: participant.UserID, CreatedAt: participant.CreatedAt}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: participant %s", domain.ErrAlreadyExists, participant.ID)
		}
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	var doc participantDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &domain.Participant{ID: doc.ID, UserID: doc.UserID, CreatedAt: doc.CreatedAt.UTC()}, nil
}

func (r *ParticipantRepository) LinkUser(ctx context.Context, participantID, userID string) error {
	res, err := r.coll.UpdateByID(ctx, participantID, bson.M{"$set": bson.M{"user_uuid": userID}})
	if err != nil {
		return fmt.Errorf("failed to link participant: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: participant %s", domain.ErrNotFound, participantID)
	}
	return nil
}
