// Package catalog persists grouping runs and their outputs to SQLite so
// repeated runs over the same model can be compared and served. The
// schema is managed through embedded migrations.
package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection for the grouping catalog.
type DB struct {
	*sql.DB

	// path is the database file path, kept for admin route labels.
	path string
}

// OpenDB opens the catalog database without touching the schema.
// Migrations manage the schema; use NewDB to open and migrate in one
// step.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite is a single-writer engine. WAL plus a busy timeout keeps
	// concurrent CLI and admin server access from tripping over locks.
	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA foreign_keys = ON;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

// NewDB opens the catalog database and applies any pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	migrations, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := db.MigrateUp(migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
