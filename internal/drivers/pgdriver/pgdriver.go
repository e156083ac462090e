// Package pgdriver is the PostgreSQL adapter implementing
// migrate.ContextQuery over database/sql, grounded on
// original_source/drivers/tokio_postgres.rs's row-mapping shape and on
// teradata-labs-loom's use of lib/pq as its Postgres driver.
package pgdriver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/MrYazdan/schemarunner/internal/migrate"
)

// Adapter wraps a *sql.DB opened with the "postgres" driver. It
// implements migrate.ContextQuery directly; wrap it with migrate.AsQuery
// for the blocking migrate.Migrate entry point.
type Adapter struct {
	db *sql.DB
}

var _ migrate.ContextQuery = (*Adapter)(nil)

// Open connects to Postgres using dsn (a libpq connection string or URL).
func Open(dsn string) (*Adapter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgdriver: open: %w", err)
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

func (a *Adapter) Execute(ctx context.Context, queries []string) (int, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgdriver: begin: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return count, fmt.Errorf("pgdriver: exec: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("pgdriver: commit: %w", err)
	}
	return count, nil
}

func (a *Adapter) QueryMigrations(ctx context.Context, query string) ([]migrate.Migration, error) {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("pgdriver: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgdriver: query: %w", err)
	}
	defer rows.Close()

	migrations, err := migrate.ScanHistoryRows(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pgdriver: commit: %w", err)
	}
	return migrations, nil
}

// Blocking returns this adapter as migrate.Query, for callers that use
// migrate.Migrate instead of migrate.MigrateContext.
func (a *Adapter) Blocking() migrate.Query {
	return migrate.AsQuery(a)
}
