package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/defect-service/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// LatestVersion selects the newest embedded migration in MigrateTo.
const LatestVersion int32 = -1

// Migrate brings the schema up to the newest embedded migration. It uses a
// single connection and records progress in the schema_version table.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	return MigrateTo(ctx, logger, cfg.Database.DSN(), LatestVersion)
}

// MigrateDSN is Migrate for an explicit connection string.
func MigrateDSN(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	return MigrateTo(ctx, logger, dsn, LatestVersion)
}

// MigrateTo moves the schema up or down to target. Version 0 drops every
// table the migrations created.
func MigrateTo(ctx context.Context, logger *zerolog.Logger, dsn string, target int32) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	latest := int32(len(m.Migrations))
	if target == LatestVersion {
		target = latest
	}
	if target < 0 || target > latest {
		return fmt.Errorf("migration version %d out of range [0, %d]", target, latest)
	}

	if err := m.MigrateTo(ctx, target); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	if from == target {
		logger.Info().Int32("version", target).Msg("database schema up to date")
	} else {
		logger.Info().Int32("from", from).Int32("to", target).Msg("migrated database schema")
	}
	return nil
}
