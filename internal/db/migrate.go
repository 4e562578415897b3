package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Migrate applies all pending migrations for the connection's dialect and
// returns the resulting schema version.
func (s *Store) Migrate() (uint, bool, error) {
	var (
		driver database.Driver
		err    error
	)
	name := s.db.DriverName()
	switch name {
	case DriverSQLite:
		driver, err = sqlite.WithInstance(s.db.DB, &sqlite.Config{})
	case DriverPostgres:
		driver, err = postgres.WithInstance(s.db.DB, &postgres.Config{})
	default:
		return 0, false, fmt.Errorf("no migrations for driver %q", name)
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to create %s migration driver: %w", name, err)
	}

	dir, err := fs.Sub(migrationFS, "migrations/"+name)
	if err != nil {
		return 0, false, fmt.Errorf("failed to open %s migrations: %w", name, err)
	}
	source, err := iofs.New(dir, ".")
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}

	// m.Close would also close s.db, so the instance is simply dropped.
	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, false, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	s.logger.Info("database migrated", "driver", name, "version", version, "dirty", dirty)
	return version, dirty, nil
}
