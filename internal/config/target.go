package config

import (
	"strconv"
	"strings"

	"github.com/MrYazdan/schemarunner/internal/migrate"
)

// Target parses the validated Migration.Target string into a migrate.Target.
// validateMigrationConfig has already rejected anything that doesn't match
// one of these four shapes, so the error return here is only reached if
// Config was constructed by hand rather than through Load, or if a version
// number is too large for an int64.
func (m MigrationConfig) Target() (migrate.Target, error) {
	target := strings.ToLower(m.Target)
	switch {
	case target == "latest":
		return migrate.Latest(), nil
	case target == "fake":
		return migrate.Fake(), nil
	case strings.HasPrefix(target, "fake:"):
		v, err := strconv.ParseInt(strings.TrimPrefix(target, "fake:"), 10, 64)
		if err != nil {
			return migrate.Target{}, err
		}
		return migrate.FakeVersion(v), nil
	default:
		v, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return migrate.Target{}, err
		}
		return migrate.Version(v), nil
	}
}

// Options builds the migrate.Options this configuration describes.
func (m MigrationConfig) Options() (migrate.Options, error) {
	target, err := m.Target()
	if err != nil {
		return migrate.Options{}, err
	}
	return migrate.Options{
		AbortDivergent:     m.AbortDivergent,
		AbortMissing:       m.AbortMissing,
		Grouped:            m.Grouped,
		Target:             target,
		MigrationTableName: m.TableName,
	}, nil
}
