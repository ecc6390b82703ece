package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/abadmin/internal/adapters/turso"
	"github.com/emiliopalmerini/abadmin/internal/infrastructure/config"
	"github.com/emiliopalmerini/abadmin/internal/migrate"
	"github.com/emiliopalmerini/abadmin/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run libsql database migrations",
	Long: `Run libsql database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).
Only the libsql store has a schema; mongo indexes are created on startup.

Examples:
  abadmin migrate      # Run all pending migrations
  abadmin migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	target := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		target = v
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.App.StoreDriver != config.DriverLibsql {
		return fmt.Errorf("migrations only apply to the libsql store, STORE_DRIVER is %q", cfg.App.StoreDriver)
	}

	db, err := turso.Open(cfg.Libsql.URL, cfg.Libsql.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	all, err := migrate.Load(migrations.FS)
	if err != nil {
		return err
	}

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	before, _, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\n", before)

	after, err := migrate.To(ctx, db, all, target)
	if err != nil {
		return err
	}
	if after == before {
		fmt.Fprintln(cmd.OutOrStdout(), "Already at target version")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated to version %d\n", after)
	return nil
}
