// Package store persists simulation runs and ensemble bands in SQLite.
//
// The database is opened through the pure-Go modernc.org/sqlite driver and
// migrated to the latest schema version on Open. Histories are stored
// cell by cell (run, step, state) so they can be queried with plain SQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/lvmarkov/logging"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("store: run not found")

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
	log *slog.Logger
}

// Option configures Open.
type Option func(*DB)

// WithLogger routes migration messages to l.
func WithLogger(l *slog.Logger) Option {
	return func(d *DB) { d.log = logging.OrDiscard(l) }
}

// Open opens (or creates) the database at dsn and runs migrations.
// dsn is a file path or ":memory:"; query parameters are passed to the
// driver unchanged, and a busy timeout is added when none are given.
func Open(ctx context.Context, dsn string, opts ...Option) (*DB, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	d := &DB{sql: sqlDB, log: logging.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	if err = d.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Version returns the applied schema version.
func (d *DB) Version(ctx context.Context) (int, error) {
	var v int
	err := d.sql.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)

	return v, err
}

func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.sql.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("schema_version: %w", err)
	}
	version, err := d.Version(ctx)
	if err != nil {
		return err
	}

	if version < 1 {
		_, err = d.sql.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS runs (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at  TEXT NOT NULL,
				name        TEXT NOT NULL,
				strategy    TEXT NOT NULL,
				seed        INTEGER NOT NULL,
				states_json TEXT NOT NULL,
				steps       INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);

			CREATE TABLE IF NOT EXISTS run_counts (
				run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				step   INTEGER NOT NULL,
				state  INTEGER NOT NULL,
				count  INTEGER NOT NULL,
				PRIMARY KEY (run_id, step, state)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		d.log.Info("applied migration", "version", 1)
	}

	if version < 2 {
		_, err = d.sql.ExecContext(ctx, `
			ALTER TABLE runs ADD COLUMN ensemble_runs INTEGER NOT NULL DEFAULT 1;
			ALTER TABLE runs ADD COLUMN lower_q REAL NOT NULL DEFAULT 0;
			ALTER TABLE runs ADD COLUMN upper_q REAL NOT NULL DEFAULT 0;

			CREATE TABLE IF NOT EXISTS run_bands (
				run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				step   INTEGER NOT NULL,
				state  INTEGER NOT NULL,
				mean   REAL NOT NULL,
				lower  REAL NOT NULL,
				upper  REAL NOT NULL,
				PRIMARY KEY (run_id, step, state)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		d.log.Info("applied migration", "version", 2, "change", "ensemble bands")
	}

	return nil
}
