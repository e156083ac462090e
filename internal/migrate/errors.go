package migrate

import (
	"errors"
	"fmt"
)

// kindTag discriminates the Kind variants, mirroring the enum in the
// original error taxonomy one-to-one.
type kindTag int

const (
	kindInvalidName kindTag = iota
	kindInvalidVersion
	kindRepeatedVersion
	kindDivergentVersion
	kindMissingVersion
	kindInvalidMigrationPath
	kindInvalidMigrationFile
	kindConfigError
	kindConnection
)

// Kind is the closed taxonomy of failures this package raises. Construct
// one with the matching New*Kind function. The Is* predicates identify
// the RepeatedVersion, DivergentVersion and MissingVersion kinds; the
// other kinds are told apart only by their Error text and, for
// Connection and InvalidMigration* kinds, by the error Unwrap returns.
type Kind struct {
	tag      kindTag
	message  string
	migA     Migration
	migB     Migration
	pathErr  error
	source   error
}

func (k Kind) Error() string {
	switch k.tag {
	case kindInvalidName:
		return "migration name must be in the format {number}(U|V|R)__{name}"
	case kindInvalidVersion:
		return "migration version must be a valid integer"
	case kindRepeatedVersion:
		return fmt.Sprintf("migration %s is repeated, migration versions must be unique", k.migA)
	case kindDivergentVersion:
		return fmt.Sprintf("applied migration %s is different than filesystem one %s", k.migA, k.migB)
	case kindMissingVersion:
		return fmt.Sprintf("migration %s is missing from the filesystem", k.migA)
	case kindInvalidMigrationPath:
		return fmt.Sprintf("invalid migrations path %s, %v", k.message, k.pathErr)
	case kindInvalidMigrationFile:
		return fmt.Sprintf("invalid migration file at path %s, %v", k.message, k.pathErr)
	case kindConfigError:
		return fmt.Sprintf("error parsing config: %s", k.message)
	case kindConnection:
		return fmt.Sprintf("`%s`, `%v`", k.message, k.source)
	default:
		return "unknown migrate error"
	}
}

// Unwrap exposes the wrapped native error for Connection and
// InvalidMigration* kinds so callers can use errors.As/errors.Is.
func (k Kind) Unwrap() error {
	if k.source != nil {
		return k.source
	}
	return k.pathErr
}

func NewInvalidNameKind() Kind    { return Kind{tag: kindInvalidName} }
func NewInvalidVersionKind() Kind { return Kind{tag: kindInvalidVersion} }

func NewRepeatedVersionKind(m Migration) Kind {
	return Kind{tag: kindRepeatedVersion, migA: m}
}

func NewDivergentVersionKind(applied, desired Migration) Kind {
	return Kind{tag: kindDivergentVersion, migA: applied, migB: desired}
}

func NewMissingVersionKind(applied Migration) Kind {
	return Kind{tag: kindMissingVersion, migA: applied}
}

func NewInvalidMigrationPathKind(path string, err error) Kind {
	return Kind{tag: kindInvalidMigrationPath, message: path, pathErr: err}
}

func NewInvalidMigrationFileKind(path string, err error) Kind {
	return Kind{tag: kindInvalidMigrationFile, message: path, pathErr: err}
}

func NewConfigErrorKind(msg string) Kind {
	return Kind{tag: kindConfigError, message: msg}
}

func NewConnectionKind(msg string, source error) Kind {
	return Kind{tag: kindConnection, message: msg, source: source}
}

// IsRepeatedVersion, IsDivergentVersion and IsMissingVersion let callers
// pattern-match on the verifier's three structured outcomes without
// reaching into the unexported fields.
func (k Kind) IsRepeatedVersion() (Migration, bool) {
	return k.migA, k.tag == kindRepeatedVersion
}

func (k Kind) IsDivergentVersion() (applied, desired Migration, ok bool) {
	return k.migA, k.migB, k.tag == kindDivergentVersion
}

func (k Kind) IsMissingVersion() (Migration, bool) {
	return k.migA, k.tag == kindMissingVersion
}

// Error is the error type this package returns. It carries a structured
// Kind plus, where applicable, a partial-progress Report.
type Error struct {
	kind   Kind
	report *Report
}

// NewError constructs an Error. report may be nil: verification errors
// and errors raised before the history table exists carry no report.
func NewError(kind Kind, report *Report) *Error {
	return &Error{kind: kind, report: report}
}

func (e *Error) Error() string {
	return e.kind.Error()
}

// Unwrap exposes the wrapped Kind so errors.As(err, &migrate.Kind{}) and
// errors.As against the driver's native error both work.
func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the structured failure kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Report returns the partial-progress report, if any was attached.
func (e *Error) Report() *Report {
	return e.report
}

// wrapConnectionError builds an *Error of kind Connection from a driver
// failure, attaching a Report built from the applied migrations observed
// so far (nil if none were committed before the failure).
func wrapConnectionError(msg string, source error, applied []Migration) *Error {
	var report *Report
	if len(applied) > 0 {
		r := NewReport(applied)
		report = &r
	}
	return NewError(NewConnectionKind(msg, source), report)
}

// AsMigrateError is a convenience wrapper around errors.As for callers
// that don't want to spell out the pointer type themselves.
func AsMigrateError(err error) (*Error, bool) {
	var target *Error
	ok := errors.As(err, &target)
	return target, ok
}
