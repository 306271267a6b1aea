package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations applies all pending goose migrations from migrationsDir.
// Called once at startup, before the server accepts traffic.
func RunMigrations(db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	before, err := goose.EnsureDBVersion(db)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}

	if after != before {
		logger.Info("Applied pending migrations",
			zap.Int64("from_version", before),
			zap.Int64("to_version", after),
		)
	} else {
		logger.Info("Schema up to date", zap.Int64("version", after))
	}
	return nil
}
