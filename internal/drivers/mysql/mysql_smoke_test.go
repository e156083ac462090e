//go:build mysql_live

package mysql

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/MrYazdan/schemarunner/internal/migrate"
)

const smokeTable = "schemarunner_smoke_history"

func openSmokeAdapter(t *testing.T) *Adapter {
	t.Helper()
	dsn := os.Getenv("SCHEMARUNNER_MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("SCHEMARUNNER_MYSQL_TEST_DSN not set, skipping live MySQL smoke test")
	}
	a, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		a.Execute(context.Background(), []string{"DROP TABLE IF EXISTS " + smokeTable})
		a.Close()
	})
	return a
}

func TestAdapter_ExecuteAndQueryMigrationsRoundTrip(t *testing.T) {
	a := openSmokeAdapter(t)
	ctx := context.Background()

	if _, err := a.Execute(ctx, []string{migrate.AssertTableQuery(smokeTable)}); err != nil {
		t.Fatalf("Execute(assert table): %v", err)
	}

	insert := "INSERT INTO " + smokeTable +
		" (version, name, applied_on, checksum) VALUES (1, 'smoke', '2026-01-01T00:00:00Z', '42')"
	if _, err := a.Execute(ctx, []string{insert}); err != nil {
		t.Fatalf("Execute(insert): %v", err)
	}

	got, err := a.QueryMigrations(ctx, migrate.GetAppliedQuery(smokeTable))
	if err != nil {
		t.Fatalf("QueryMigrations: %v", err)
	}
	if len(got) != 1 || got[0].Version != 1 || got[0].Name != "smoke" || got[0].Checksum != 42 {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestAdapter_ExecuteWrapsDriverError(t *testing.T) {
	a := openSmokeAdapter(t)

	_, err := a.Execute(context.Background(), []string{"NOT VALID SQL"})
	if err == nil {
		t.Fatal("expected an error for malformed SQL")
	}
	if !strings.Contains(err.Error(), "mysql: exec:") {
		t.Fatalf("expected error wrapped with \"mysql: exec:\" prefix, got %v", err)
	}
}

func TestAdapter_BlockingWrapsExecuteAndQueryMigrations(t *testing.T) {
	a := openSmokeAdapter(t)
	q := a.Blocking()

	if _, err := q.Execute([]string{migrate.AssertTableQuery(smokeTable)}); err != nil {
		t.Fatalf("Execute via Blocking(): %v", err)
	}
	if _, err := q.QueryMigrations(migrate.GetAppliedQuery(smokeTable)); err != nil {
		t.Fatalf("QueryMigrations via Blocking(): %v", err)
	}
}
