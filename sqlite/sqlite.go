// Package sqlite provides SQLite-based storage implementations for jobtrack services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

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
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait on lock contention instead of failing with "database is locked".
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
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
// records.posting_id is unique: a posting has at most one record.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS postings (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'linkedin',
			content_hash TEXT NOT NULL DEFAULT '',
			received_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			posting_id TEXT NOT NULL UNIQUE REFERENCES postings(id) ON DELETE CASCADE,
			company TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			salary TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			experience TEXT NOT NULL DEFAULT '[]',
			education TEXT NOT NULL DEFAULT '[]',
			skills TEXT NOT NULL DEFAULT '[]',
			responsibilities TEXT NOT NULL DEFAULT '[]',
			work_arrangement TEXT NOT NULL DEFAULT 'None',
			work_location TEXT NOT NULL DEFAULT 'None',
			is_generate INTEGER NOT NULL DEFAULT 0,
			resume_path TEXT,
			processed_at TEXT NOT NULL,
			is_applied INTEGER NOT NULL DEFAULT 0,
			applied_at TEXT,
			is_shortlisted INTEGER NOT NULL DEFAULT 0,
			shortlisted_at TEXT,
			is_rejected INTEGER NOT NULL DEFAULT 0,
			rejected_at TEXT,
			is_offered INTEGER NOT NULL DEFAULT 0,
			offered_at TEXT,
			offered_salary TEXT,
			is_accepted INTEGER NOT NULL DEFAULT 0,
			accepted_at TEXT,
			is_declined INTEGER NOT NULL DEFAULT 0,
			declined_at TEXT,
			notes TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_postings_received_at ON postings(received_at);
		CREATE INDEX IF NOT EXISTS idx_records_processed_at ON records(processed_at);
	`

	_, err := db.db.Exec(schema)
	return err
}
