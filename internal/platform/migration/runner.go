// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the schema in data/migrations with golang-migrate.

The SQL is embedded in the binary. A non-empty path reads a directory on disk
instead, which is handy while editing migrations locally. A dirty schema is
never migrated further; it needs a manual fix first.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taibuivan/reviewboard/data"
)

// ErrDirty is returned while the schema is marked dirty by a failed migration.
var ErrDirty = errors.New("migration: database is dirty")

// Status describes the applied schema version.
type Status struct {
	Version uint
	Dirty   bool
	// Empty is true when no migration has run yet.
	Empty bool
}

func open(dsn, path string, logger *slog.Logger) (*migrate.Migrate, error) {
	var (
		migrator *migrate.Migrate
		err      error
	)

	if path == "" {
		source, sourceErr := iofs.New(data.Migrations, "migrations")
		if sourceErr != nil {
			return nil, fmt.Errorf("migration: failed to open embedded source: %w", sourceErr)
		}
		migrator, err = migrate.NewWithSourceInstance("iofs", source, convertToPgx5DSN(dsn))
	} else {
		migrator, err = migrate.New("file://"+path, convertToPgx5DSN(dsn))
	}
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}

	migrator.Log = &migrateLogger{logger: logger}
	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Warn("migration_close_failed", slog.Any("error", err))
	}
}

func status(migrator *migrate.Migrate) (Status, error) {
	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Empty: true}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migration: failed to read version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Current reports the applied version without changing anything.
func Current(dsn, path string, logger *slog.Logger) (Status, error) {
	migrator, err := open(dsn, path, logger)
	if err != nil {
		return Status{}, err
	}
	defer closeMigrator(migrator, logger)

	return status(migrator)
}

// RunUp applies every pending migration. An up-to-date schema is not an error.
func RunUp(dsn, path string, logger *slog.Logger) error {
	migrator, err := open(dsn, path, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	before, err := status(migrator)
	if err != nil {
		return err
	}
	if before.Dirty {
		return fmt.Errorf("%w at version %d", ErrDirty, before.Version)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(before.Version)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	after, _ := status(migrator)
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(before.Version)),
		slog.Uint64("to_version", uint64(after.Version)),
	)
	return nil
}

// RunDown rolls back steps migrations.
func RunDown(dsn, path string, steps int, logger *slog.Logger) error {
	if steps < 1 {
		return fmt.Errorf("migration: steps must be positive, got %d", steps)
	}

	migrator, err := open(dsn, path, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	if err := migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: down failed: %w", err)
	}

	after, _ := status(migrator)
	logger.Info("migration_rolled_back",
		slog.Int("steps", steps),
		slog.Uint64("to_version", uint64(after.Version)),
	)
	return nil
}

// convertToPgx5DSN rewrites postgres:// URLs to the pgx5:// scheme the driver registers.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (adapter *migrateLogger) Printf(format string, args ...any) {
	adapter.logger.Debug("migrate", slog.String("message", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (adapter *migrateLogger) Verbose() bool {
	return false
}
