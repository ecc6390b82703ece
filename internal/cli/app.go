package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/emiliopalmerini/abadmin/internal/accounts"
	"github.com/emiliopalmerini/abadmin/internal/adapters/memory"
	"github.com/emiliopalmerini/abadmin/internal/adapters/mongodb"
	"github.com/emiliopalmerini/abadmin/internal/adapters/otel"
	"github.com/emiliopalmerini/abadmin/internal/adapters/turso"
	"github.com/emiliopalmerini/abadmin/internal/experiments"
	"github.com/emiliopalmerini/abadmin/internal/infrastructure/config"
	"github.com/emiliopalmerini/abadmin/internal/migrate"
	"github.com/emiliopalmerini/abadmin/internal/ports"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config      *config.Config
	Repos       *ports.Repositories
	Metrics     ports.MetricsRecorder
	Experiments *experiments.Service
	Accounts    *accounts.Service
}

// NewAppContext loads the configuration and opens the configured store.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newAppContext(ctx, cfg)
}

func newAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	repos, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	metrics := newMetrics(ctx, cfg.Otel)

	return &AppContext{
		Config:  cfg,
		Repos:   repos,
		Metrics: metrics,
		Experiments: experiments.NewService(repos.Experiments, repos.Variants, repos.Participants,
			experiments.WithMetrics(metrics),
			experiments.WithControlVariant(cfg.App.ControlVariant),
		),
		Accounts: accounts.NewService(repos.Users, repos.Participants, repos.FunnelEvents),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*ports.Repositories, error) {
	switch cfg.App.StoreDriver {
	case config.DriverMongo:
		uri, err := cfg.Mongo.ConnectionURI()
		if err != nil {
			return nil, err
		}
		client, err := mongodb.Connect(ctx, uri, cfg.Mongo.DatabaseName(cfg.App.Stage))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		return mongodb.NewRepositories(client), nil

	case config.DriverLibsql:
		db, err := turso.Open(cfg.Libsql.URL, cfg.Libsql.AuthToken)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migrate.RunAll(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return turso.NewRepositories(db), nil

	case config.DriverMemory:
		log.Printf("Using the in-memory store, data is lost on exit")
		return memory.NewRepositories(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.App.StoreDriver)
	}
}

// newMetrics falls back to a no-op recorder when the exporter is disabled or
// cannot be created.
func newMetrics(ctx context.Context, cfg otel.Config) ports.MetricsRecorder {
	if !cfg.Enabled {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, cfg)
	if err != nil {
		log.Printf("Metrics disabled: %v", err)
		return otel.NewNoOpExporter()
	}
	return exp
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close(ctx context.Context) error {
	var firstErr error
	if a.Metrics != nil {
		if err := a.Metrics.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if err := a.Repos.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
