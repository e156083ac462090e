package migrate

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// fakeDriver is an in-memory stand-in for a real database/sql-backed
// adapter, used so the core's tests exercise VerifyMigrations, the
// StepIterator and Migrate/MigrateContext without a live database. Real
// backend adapters (internal/drivers/*) implement the same interfaces
// against database/sql; this fake mirrors their observable behaviour
// (transactional all-or-nothing execute, history table round-trip)
// closely enough that the property tests in runner_test.go double as a
// contract test any real adapter should also satisfy.
type fakeDriver struct {
	tableAsserted bool
	rows          map[int64]historyRow
	executedSQL   []string
	failOn        func(query string) error
}

type historyRow struct {
	version   int64
	name      string
	appliedOn string
	checksum  string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{rows: make(map[int64]historyRow)}
}

var insertPattern = regexp.MustCompile(`INSERT INTO \S+ \(version, name, applied_on, checksum\) VALUES \((\d+), '([^']*)', '([^']*)', '([^']*)'\)`)
var deletePattern = regexp.MustCompile(`DELETE FROM \S+ WHERE version = (\d+)`)

// Execute applies queries to the fake store, all-or-nothing: if failOn
// rejects a query partway through, nothing from this call is kept, which
// matches the Transaction contract's rollback guarantee.
func (f *fakeDriver) Execute(queries []string) (int, error) {
	return f.ExecuteContext(context.Background(), queries)
}

func (f *fakeDriver) ExecuteContext(ctx context.Context, queries []string) (int, error) {
	snapshotAsserted := f.tableAsserted
	snapshotRows := make(map[int64]historyRow, len(f.rows))
	for k, v := range f.rows {
		snapshotRows[k] = v
	}

	count := 0
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			f.tableAsserted = snapshotAsserted
			f.rows = snapshotRows
			return count, err
		}
		if f.failOn != nil {
			if err := f.failOn(q); err != nil {
				f.tableAsserted = snapshotAsserted
				f.rows = snapshotRows
				return count, err
			}
		}

		f.applyOne(q)
		f.executedSQL = append(f.executedSQL, q)
		count++
	}
	return count, nil
}

func (f *fakeDriver) applyOne(q string) {
	switch {
	case matchesCreateTable(q):
		f.tableAsserted = true
	case deletePattern.MatchString(q):
		m := deletePattern.FindStringSubmatch(q)
		version, _ := strconv.ParseInt(m[1], 10, 64)
		delete(f.rows, version)
	case insertPattern.MatchString(q):
		m := insertPattern.FindStringSubmatch(q)
		version, _ := strconv.ParseInt(m[1], 10, 64)
		f.rows[version] = historyRow{version: version, name: m[2], appliedOn: m[3], checksum: m[4]}
	default:
		// migration body: the fake doesn't model application schema state,
		// only that it was asked to run it.
	}
}

func matchesCreateTable(q string) bool {
	return len(q) >= 12 && q[:12] == "CREATE TABLE"
}

func (f *fakeDriver) QueryMigrations(sql string) ([]Migration, error) {
	return f.QueryMigrationsContext(context.Background(), sql)
}

func (f *fakeDriver) QueryMigrationsContext(ctx context.Context, sql string) ([]Migration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]historyRow, 0, len(f.rows))
	for _, r := range f.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].version < rows[j].version })

	wantLast := len(sql) > 0 && regexp.MustCompile(`ORDER BY version DESC`).MatchString(sql)
	if wantLast {
		if len(rows) == 0 {
			return nil, nil
		}
		rows = rows[len(rows)-1:]
	}

	out := make([]Migration, 0, len(rows))
	for _, r := range rows {
		appliedOn, err := time.Parse(time.RFC3339, r.appliedOn)
		if err != nil {
			return nil, fmt.Errorf("fakeDriver: malformed applied_on %q: %w", r.appliedOn, err)
		}
		checksum, err := strconv.ParseUint(r.checksum, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fakeDriver: malformed checksum %q: %w", r.checksum, err)
		}
		out = append(out, NewApplied(r.version, r.name, appliedOn, checksum))
	}
	return out, nil
}

// contextFakeDriver adapts fakeDriver to ContextQuery directly (rather
// than through AsContextQuery) so cancellation tests can exercise a
// driver that actually honours ctx mid-call.
type contextFakeDriver struct {
	*fakeDriver
}

func (c contextFakeDriver) Execute(ctx context.Context, queries []string) (int, error) {
	return c.fakeDriver.ExecuteContext(ctx, queries)
}

func (c contextFakeDriver) QueryMigrations(ctx context.Context, sql string) ([]Migration, error) {
	return c.fakeDriver.QueryMigrationsContext(ctx, sql)
}

func strPtr(s string) *string { return &s }
