// Package sqlite provides the SQLite-backed modwiki.Store.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/modwiki"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to open database: %v", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// This also keeps a ":memory:" database alive across queries.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return modwiki.Errorf(modwiki.ESTORE, "failed to connect to database %s: %v", db.path, err)
	}

	// Wait up to 5 seconds on lock contention with another modwiki process.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return modwiki.Errorf(modwiki.ESTORE, "failed to set busy timeout: %v", err)
	}

	// WAL lets readers keep seeing the previous generation while an update
	// commits. Not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return modwiki.Errorf(modwiki.ESTORE, "failed to enable WAL mode: %v", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return modwiki.Errorf(modwiki.ESTORE, "failed to create schema: %v", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS mods (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			wiki_url TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			last_seen TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_mods_category ON mods(category);

		CREATE TABLE IF NOT EXISTS generation (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			id TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			count INTEGER NOT NULL
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
