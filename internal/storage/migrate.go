package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult reports the schema version before and after a migration.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// Migrate moves the schema to targetVersion.
//   - targetVersion < 0 migrates to the latest version.
//   - targetVersion == 0 rolls back every migration.
//   - targetVersion > 0 migrates to that version.
func (db *DB) Migrate(targetVersion int) (MigrationResult, error) {
	var res MigrationResult

	m, release, err := db.migrator()
	if err != nil {
		return res, err
	}
	defer release()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("get migration version: %w", err)
	}
	if dirty {
		return res, fmt.Errorf("database is in a dirty state at version %d; fix manually or force the version", from)
	}
	res.From = from

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		res.To = from
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("migrate %s schema to version %d: %w", db.backend, targetVersion, err)
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("get migration version: %w", err)
	}
	res.To = to
	res.Changed = true
	return res, nil
}

// migrator builds a migrate instance for the store's backend. SQLite reuses
// the store's own connection so in-memory databases see the schema; the
// server backends get a dedicated pool that release closes.
func (db *DB) migrator() (*migrate.Migrate, func(), error) {
	src, err := fs.Sub(migrationsFS, "migrations/"+db.migrationsDir())
	if err != nil {
		return nil, nil, fmt.Errorf("access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(src, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("create migration source: %w", err)
	}

	conn := db.conn
	release := func() {}
	if db.backend != SQLite {
		conn, err = sql.Open(db.backend.driverName(), db.dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s db for migrations: %w", db.backend, err)
		}
	}

	var driver database.Driver
	switch db.backend {
	case PostgreSQL:
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	case MySQL:
		driver, err = migratemysql.WithInstance(conn, &migratemysql.Config{})
	default:
		driver, err = sqlite.WithInstance(conn, &sqlite.Config{})
	}
	if err != nil {
		if db.backend != SQLite {
			_ = conn.Close()
		}
		return nil, nil, fmt.Errorf("create %s migrate driver: %w", db.backend, err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(db.backend), driver)
	if err != nil {
		if db.backend != SQLite {
			_ = conn.Close()
		}
		return nil, nil, fmt.Errorf("create migrate instance: %w", err)
	}
	if db.backend != SQLite {
		release = func() { _, _ = m.Close() }
	}
	return m, release, nil
}

func (db *DB) migrationsDir() string {
	switch db.backend {
	case PostgreSQL:
		return "postgres"
	case MySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}
