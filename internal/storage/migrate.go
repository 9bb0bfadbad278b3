package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// newMigrator opens its own connection so migrations never share the
// repository's single pooled connection.
func newMigrator(dbPath string) (*migrate.Migrate, func(), error) {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open migration database: %w", err)
	}

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		migrateDB.Close()
		return nil, nil, fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		migrateDB.Close()
		return nil, nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		migrateDB.Close()
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, func() { m.Close() }, nil
}

// RunMigrations applies every pending embedded migration to the database at dbPath.
func RunMigrations(dbPath string) error {
	m, done, err := newMigrator(dbPath)
	if err != nil {
		return err
	}
	defer done()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateTo moves the schema up or down to version; 0 rolls everything back.
func MigrateTo(dbPath string, version uint) error {
	m, done, err := newMigrator(dbPath)
	if err != nil {
		return err
	}
	defer done()

	if version == 0 {
		err = m.Down()
	} else {
		err = m.Migrate(version)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate to %d: %w", version, err)
	}
	return nil
}

// SchemaVersion reports the applied version; 0 means no migration has run.
func SchemaVersion(dbPath string) (version uint, dirty bool, err error) {
	m, done, err := newMigrator(dbPath)
	if err != nil {
		return 0, false, err
	}
	defer done()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}
