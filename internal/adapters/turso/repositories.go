package turso

import (
	"context"
	"database/sql"

	"github.com/emiliopalmerini/abadmin/internal/ports"
)

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *ports.Repositories {
	return &ports.Repositories{
		Experiments:  NewExperimentRepository(db),
		Variants:     NewVariantRepository(db),
		Participants: NewParticipantRepository(db),
		Users:        NewUserRepository(db),
		FunnelEvents: NewFunnelEventRepository(db),
		Closer:       func(context.Context) error { return db.Close() },
	}
}
