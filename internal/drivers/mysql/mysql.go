// Package mysql is the MySQL/MariaDB adapter implementing
// migrate.ContextQuery over database/sql, grounded on
// teradata-labs-loom's use of go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/MrYazdan/schemarunner/internal/migrate"
)

// Adapter wraps a *sql.DB opened with the "mysql" driver. It implements
// migrate.ContextQuery directly; wrap it with migrate.AsQuery for the
// blocking migrate.Migrate entry point.
type Adapter struct {
	db *sql.DB
}

var _ migrate.ContextQuery = (*Adapter)(nil)

// Open connects to MySQL using dsn in go-sql-driver/mysql's own DSN
// format (e.g. "user:pass@tcp(host:3306)/dbname?parseTime=true").
func Open(dsn string) (*Adapter, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
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
		return 0, fmt.Errorf("mysql: begin: %w", err)
	}
	defer tx.Rollback()

	count := 0
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return count, fmt.Errorf("mysql: exec: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("mysql: commit: %w", err)
	}
	return count, nil
}

// QueryMigrations runs a single read query inside its own transaction.
// MySQL's default transaction isolation (REPEATABLE READ) is sufficient
// here since this is a point-in-time read, not a long-lived snapshot.
func (a *Adapter) QueryMigrations(ctx context.Context, query string) ([]migrate.Migration, error) {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("mysql: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mysql: query: %w", err)
	}
	defer rows.Close()

	migrations, err := migrate.ScanHistoryRows(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("mysql: commit: %w", err)
	}
	return migrations, nil
}

// Blocking returns this adapter as migrate.Query, for callers that use
// migrate.Migrate instead of migrate.MigrateContext.
func (a *Adapter) Blocking() migrate.Query {
	return migrate.AsQuery(a)
}
