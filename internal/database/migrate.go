package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/migrations"
)

// Migrate runs a goose command (up, down, status) with the embedded migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateMigrator, err)
	}

	log := logger.FromContext(ctx)
	switch command {
	case MigrateUp:
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
		for _, r := range results {
			log.Info(LogMsgMigrationApplied, "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
		}
		if len(results) == 0 {
			log.Info(LogMsgMigrationsUpToDate)
		}
	case MigrateDown:
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
		log.Info(LogMsgMigrationRolledBack, "version", r.Source.Version, "file", r.Source.Path)
	case MigrateStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
		for _, s := range statuses {
			log.Info(LogMsgMigrationStatus, "version", s.Source.Version, "file", s.Source.Path,
				"state", s.State, "applied_at", s.AppliedAt)
		}
	default:
		return fmt.Errorf("%s: %q", ErrMsgUnknownMigrationCommand, command)
	}
	return nil
}
