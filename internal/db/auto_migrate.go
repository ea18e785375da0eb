package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies every pending migration embedded in the migrations
// package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		logging.Get().Debug("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}
