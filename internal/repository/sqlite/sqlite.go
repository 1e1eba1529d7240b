// Package sqlite implements the repository interfaces on SQLite.
//
// SQLite is embedded: the whole store is a single file next to the binary,
// with no database server to run. ":memory:" gives each test a throwaway
// database. modernc.org/sqlite is a pure Go translation of the SQLite C
// code, so no C toolchain or CGo is involved and cross-compilation works
// everywhere Go does.
//
// Access goes through database/sql:
//
//	sql.Open("sqlite", path)  -> a connection pool (sql.DB, not a single conn)
//	QueryRowContext / Scan    -> read one row into struct fields
//	ExecContext               -> INSERT/UPDATE, with a sql.Result for RowsAffected
//
// The connection is opened in WAL mode so reads are not blocked by a
// concurrent write.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB wraps the sql.DB pool and provides the repository implementations.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite serializes writers anyway, and a single pooled connection keeps
	// every caller on the same ":memory:" database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the tables. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, so it is safe to run on every start.
//
// The UNIQUE constraints here are the authoritative uniqueness enforcement:
// the service layer pre-checks for friendlier error collection, but a race
// between two concurrent registrations is always caught by the store and
// surfaced as a conflict, never as a duplicate row.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS telegram_users (
			telegram_id   INTEGER PRIMARY KEY,
			username      TEXT NOT NULL DEFAULT '',
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			language_code TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating telegram_users table: %w", err)
	}

	return nil
}
