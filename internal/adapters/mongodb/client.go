// Package mongodb stores experiments in MongoDB, one document per experiment,
// variant, participant, user and funnel event.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/emiliopalmerini/abadmin/internal/ports"
)

const (
	experimentsCollection  = "experiments"
	variantsCollection     = "experiment_variants"
	participantsCollection = "experiment_participants"
	usersCollection        = "users"
	funnelCollection       = "funnel_events"

	connectTimeout = 10 * time.Second
)

// Client owns the driver connection and the selected database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, pings the primary and selects database.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection uri is required")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	opts := options.Client().ApplyURI(uri).SetConnectTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Client{client: client, db: client.Database(database)}, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

// EnsureIndexes creates the unique indexes the repositories rely on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		experimentsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		variantsCollection: {
			{
				Keys:    bson.D{{Key: "experiment_uuid", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		funnelCollection: {
			{Keys: bson.D{{Key: "session_uuid", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := c.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects from the server.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// NewRepositories creates all mongo repository implementations on top of one client.
func NewRepositories(c *Client) *ports.Repositories {
	return &ports.Repositories{
		Experiments:  NewExperimentRepository(c.db),
		Variants:     NewVariantRepository(c.db),
		Participants: NewParticipantRepository(c.db),
		Users:        NewUserRepository(c.db),
		FunnelEvents: NewFunnelEventRepository(c.db),
		Closer:       c.Close,
	}
}
