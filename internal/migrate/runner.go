package migrate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Options configures a single migrate run. Grouped forces batched mode;
// any Fake* Target implies batched mode regardless of Grouped.
type Options struct {
	AbortDivergent     bool
	AbortMissing       bool
	Grouped            bool
	Target             Target
	MigrationTableName string
}

func (o Options) tableName() string {
	if o.MigrationTableName == "" {
		return DefaultMigrationTableName
	}
	return o.MigrationTableName
}

// Migrate is the blocking entry point: it runs against a Query driver on
// the calling goroutine with no cancellation support.
func Migrate(db Query, migrations []Migration, opts Options) (Report, error) {
	return MigrateContext(context.Background(), AsContextQuery(db), migrations, opts)
}

// MigrateContext is the suspending entry point: it suspends (via ctx)
// before ASSERT_TABLE returns, before the applied-list query returns,
// and at each step execution. It is the one place both the blocking and
// suspending driver families converge, so the step-generation logic in
// steps.go and verify.go is never duplicated between them.
func MigrateContext(ctx context.Context, db ContextQuery, migrations []Migration, opts Options) (Report, error) {
	table := opts.tableName()

	if _, err := db.Execute(ctx, []string{AssertTableQuery(table)}); err != nil {
		return Report{}, wrapConnectionError("error asserting migrations table", err, nil)
	}

	applied, err := db.QueryMigrations(ctx, GetAppliedQuery(table))
	if err != nil {
		return Report{}, wrapConnectionError("error getting applied migrations", err, nil)
	}

	toApply, err := VerifyMigrations(applied, migrations, opts.AbortDivergent, opts.AbortMissing)
	if err != nil {
		return Report{}, err
	}

	if len(toApply) == 0 {
		log.Info().Msg("no migrations to apply")
	}

	batched := opts.Grouped || opts.Target.IsFake()
	iter := NewStepIterator(toApply, opts.Target, table, batched)

	var committed []Migration
	for {
		step, ok := iter.Next()
		if !ok {
			break
		}

		logStep(step)

		if _, err := db.Execute(ctx, step.SQL); err != nil {
			return Report{}, wrapConnectionError(errorMessageFor(step), err, committed)
		}

		switch step.Kind {
		case StepBatched:
			committed = append(committed, iter.Applied()...)
		case StepItemizedMetaInsert:
			committed = append(committed, step.Current)
		}
	}

	return NewReport(iter.Applied()), nil
}

func logStep(step Step) {
	event := log.WithLevel(step.Log.Level)
	switch step.Kind {
	case StepBatched:
		event.Str("migrations", step.Display).Msg(step.Log.Msg)
	default:
		event.Stringer("migration", step.Current).Msg(step.Log.Msg)
	}
}

func errorMessageFor(step Step) string {
	switch step.Kind {
	case StepBatched:
		return "error applying batch migration"
	case StepItemized:
		return fmt.Sprintf("error applying single migration: %s", step.Current.Name)
	case StepItemizedMetaInsert:
		return fmt.Sprintf("error applying update: %s", step.Current.Name)
	default:
		return "error applying migration"
	}
}
