// Package migrate is the migration execution core: given an ordered set of
// SQL migrations and a database connection, it idempotently advances the
// schema to a requested target, records what it applied, and reports the
// outcome. Migration discovery, checksum computation, and concrete driver
// wiring live outside this package; it only consumes ready-made Migration
// values and a Transaction/Query implementation.
package migrate

import (
	"fmt"
	"time"
)

// Prefix classifies how a migration participates in versioning.
type Prefix int

const (
	// Versioned migrations apply once, in ascending version order.
	Versioned Prefix = iota
	// Unversioned migrations are informational only; they never change
	// whether a migration is skipped against a Version target.
	Unversioned
	// Rerunnable migrations may be re-applied on every run regardless of
	// the applied history or the requested Target.
	Rerunnable
)

func (p Prefix) String() string {
	switch p {
	case Versioned:
		return "Versioned"
	case Unversioned:
		return "Unversioned"
	case Rerunnable:
		return "Rerunnable"
	default:
		return fmt.Sprintf("Prefix(%d)", int(p))
	}
}

// State tracks whether a Migration has been applied during the current run.
type State int

const (
	Pending State = iota
	Applied
)

func (s State) String() string {
	if s == Applied {
		return "Applied"
	}
	return "Pending"
}

// Migration is an immutable value identifying a single schema change.
//
// SQL is nil for entries reconstructed from the history table (the body
// isn't persisted there); AppliedOn is set only on entries read back from
// the history table, and writing a history row does not set it.
type Migration struct {
	Version   int64
	Prefix    Prefix
	Name      string
	Checksum  uint64
	SQL       *string
	AppliedOn *time.Time
	State     State
}

// NewApplied constructs a Migration as reconstructed from a history row: no
// SQL body, an AppliedOn timestamp, and State already Applied.
func NewApplied(version int64, name string, appliedOn time.Time, checksum uint64) Migration {
	t := appliedOn
	return Migration{
		Version:   version,
		Prefix:    Versioned,
		Name:      name,
		Checksum:  checksum,
		AppliedOn: &t,
		State:     Applied,
	}
}

// WithApplied returns a copy of m marked Applied. Used by the step
// generator to pre-mark migrations that will be applied during a run,
// before the transaction that applies them actually commits.
func (m Migration) WithApplied() Migration {
	m.State = Applied
	return m
}

func (m Migration) String() string {
	return fmt.Sprintf("%s(%d): %s", m.Prefix, m.Version, m.Name)
}

// HasSQL reports whether the migration body is present.
func (m Migration) HasSQL() bool {
	return m.SQL != nil
}
