package migrate

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StepKind tags the three shapes of execution unit the generator produces.
type StepKind int

const (
	// StepBatched carries every filtered migration's body and history
	// insert, interleaved in version order, meant to run in one
	// transaction.
	StepBatched StepKind = iota
	// StepItemized carries a single migration body, meant to run in its
	// own transaction, immediately followed by a StepItemizedMetaInsert
	// for the same migration.
	StepItemized
	// StepItemizedMetaInsert carries the history-row insert for the
	// migration that preceded it.
	StepItemizedMetaInsert
)

// LogEntry is the level+message a consumer must emit before executing a
// Step.
type LogEntry struct {
	Level zerolog.Level
	Msg   string
}

// Step is one unit the execution driver (runner.go) hands to a
// Transaction/ContextTransaction. SQL is executed, in order, inside a
// single transaction; for StepBatched that means every interleaved body
// and insert. A StepItemized carries exactly one statement; a
// StepItemizedMetaInsert carries one INSERT, preceded by a DELETE of the
// existing history row when the migration is Rerunnable.
type Step struct {
	Kind    StepKind
	SQL     []string
	Current Migration // zero value for StepBatched
	Display string    // set only for StepBatched, for logging
	Log     LogEntry
}

type stepState int

const (
	needBody stepState = iota
	needInsert
	advance
)

// StepIterator is the lazy, non-restartable stream of execution steps.
// Pull the next step with Next until it reports ok == false.
type StepIterator struct {
	filtered  []Migration
	tableName string
	batched   bool
	isFake    bool

	idx       int
	state     stepState
	batchDone bool
}

// NewStepIterator filters toApply against target, marks every migration
// that will be applied as State == Applied on the caller's working copy
// before the step that applies it is even emitted, logs the
// skip/summary messages, and returns the ready-to-pull iterator.
func NewStepIterator(toApply []Migration, target Target, tableName string, batched bool) *StepIterator {
	filtered := make([]Migration, 0, len(toApply))
	for i, m := range toApply {
		if shouldApply(m, target) {
			toApply[i] = m.WithApplied()
			filtered = append(filtered, toApply[i])
		} else {
			if v, bounded := target.Bound(); bounded {
				log.Info().Str("migration", m.String()).Int64("target_version", v).Msg("skipping migration due to target version")
			}
		}
	}

	switch {
	case target.IsFake():
		log.Info().Msg("not going to apply any migration as fake flag is enabled")
	case batched:
		log.Info().Int("count", len(filtered)).Msg("going to batch apply migrations in a single transaction")
	default:
		log.Info().Int("count", len(filtered)).Msg("going to apply migrations in multiple transactions")
	}

	return &StepIterator{
		filtered:  filtered,
		tableName: tableName,
		batched:   batched,
		isFake:    target.IsFake(),
	}
}

// Applied returns the migrations this iterator will emit steps for (or
// already has), in version order — the pre-marked "intent to apply" list
// that becomes the successful run's Report.
func (it *StepIterator) Applied() []Migration {
	return it.filtered
}

// Next pulls the next Step. An empty to-apply list yields no steps at
// all, in either mode.
func (it *StepIterator) Next() (Step, bool) {
	if len(it.filtered) == 0 {
		return Step{}, false
	}

	if it.batched {
		return it.nextBatched()
	}
	return it.nextItemized()
}

func (it *StepIterator) nextBatched() (Step, bool) {
	if it.batchDone {
		return Step{}, false
	}
	it.batchDone = true

	sql := make([]string, 0, len(it.filtered)*2)
	names := make([]string, 0, len(it.filtered))
	for _, m := range it.filtered {
		if !it.isFake {
			sql = append(sql, *m.SQL)
		}
		sql = append(sql, historyWriteQueries(m, it.tableName)...)
		names = append(names, m.String())
	}

	return Step{
		Kind:    StepBatched,
		SQL:     sql,
		Display: strings.Join(names, ", "),
		Log:     LogEntry{Level: zerolog.InfoLevel, Msg: "applying batch migrations in a single transaction"},
	}, true
}

func (it *StepIterator) nextItemized() (Step, bool) {
	for it.idx < len(it.filtered) {
		m := it.filtered[it.idx]
		switch it.state {
		case needBody:
			it.state = needInsert
			return Step{
				Kind:    StepItemized,
				SQL:     []string{*m.SQL},
				Current: m,
				Log:     LogEntry{Level: zerolog.InfoLevel, Msg: "applying migration"},
			}, true
		case needInsert:
			it.state = advance
			return Step{
				Kind:    StepItemizedMetaInsert,
				SQL:     historyWriteQueries(m, it.tableName),
				Current: m,
				Log:     LogEntry{Level: zerolog.DebugLevel, Msg: "applied migration, writing state to db"},
			}, true
		case advance:
			it.idx++
			it.state = needBody
		}
	}
	return Step{}, false
}
