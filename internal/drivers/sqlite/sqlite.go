// Package sqlite is the SQLite adapter implementing migrate.ContextQuery
// over database/sql, using the mattn/go-sqlite3 cgo driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MrYazdan/schemarunner/internal/migrate"
)

// Adapter wraps a *sql.DB opened with the "sqlite3" driver. Open it with
// Open, or construct it directly from an existing *sql.DB via New.
//
// Adapter implements migrate.ContextQuery directly, since every
// suspension point below (BeginTx, ExecContext, Commit) genuinely
// observes ctx; wrap it with migrate.AsQuery to use the blocking
// migrate.Migrate entry point instead.
type Adapter struct {
	db *sql.DB
}

var _ migrate.ContextQuery = (*Adapter)(nil)

// Open connects to a SQLite database file (or ":memory:"), enabling WAL
// journaling and foreign keys — the defaults this project's SQLite
// callers expect.
func Open(path string) (*Adapter, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return &Adapter{db: db}, nil
}

// New wraps an already-open *sql.DB.
func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Close closes the underlying connection pool.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Execute runs queries inside a single transaction, rolling back on the
// first failure or on ctx cancellation.
func (a *Adapter) Execute(ctx context.Context, queries []string) (int, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return count, fmt.Errorf("sqlite: exec: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("sqlite: commit: %w", err)
	}
	return count, nil
}

// QueryMigrations runs a single read query inside its own transaction and
// parses the fixed (version, name, applied_on, checksum) column order.
func (a *Adapter) QueryMigrations(ctx context.Context, query string) ([]migrate.Migration, error) {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	migrations, err := migrate.ScanHistoryRows(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return migrations, nil
}

// Blocking returns this adapter as migrate.Query, for callers that use
// migrate.Migrate instead of migrate.MigrateContext.
func (a *Adapter) Blocking() migrate.Query {
	return migrate.AsQuery(a)
}
