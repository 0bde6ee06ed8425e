package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/username/expensio/backend/src/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connect opens the SQLite database at databasePath and applies any
// pending migrations. A ping or migration failure is logged but the
// handle is still returned: database/sql connects lazily, so routes
// fail at call time instead of the process refusing to start.
func Connect(databasePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", databasePath, err)
	}

	if err := db.Ping(); err != nil {
		logger.L.Error("Database ping failed, continuing startup", "databasePath", databasePath, "error", err)
		return db, nil
	}

	if err := Migrate(db); err != nil {
		logger.L.Error("Database migration failed, continuing startup", "databasePath", databasePath, "error", err)
		return db, nil
	}

	logger.L.Info("Database connected and migrated", "databasePath", databasePath)
	return db, nil
}

// Migrate applies the embedded SQL migrations to db.
func Migrate(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
