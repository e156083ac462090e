package migrate

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// VerifyMigrations reconciles the database's applied history against the
// caller-supplied desired set and returns the ordered list of migrations
// still to apply.
//
// abortDivergent turns a checksum mismatch on an already-applied,
// non-rerunnable version into an error instead of a logged warning;
// abortMissing does the same for a version present in history but absent
// from desired.
func VerifyMigrations(applied, desired []Migration, abortDivergent, abortMissing bool) ([]Migration, error) {
	if m, ok := findRepeatedVersion(desired); ok {
		return nil, NewError(NewRepeatedVersionKind(m), nil)
	}

	desired = append([]Migration(nil), desired...)
	sort.Slice(desired, func(i, j int) bool { return desired[i].Version < desired[j].Version })

	byVersion := make(map[int64]Migration, len(desired))
	for _, d := range desired {
		byVersion[d.Version] = d
	}

	maxApplied := int64(-1)
	for _, a := range applied {
		if a.Version > maxApplied {
			maxApplied = a.Version
		}

		d, found := byVersion[a.Version]
		switch {
		case found && d.Prefix == Rerunnable:
			// Rerunnable migrations are expected to be re-applied and
			// re-checksummed on every run; history divergence is normal.
			continue
		case !found:
			if abortMissing {
				return nil, NewError(NewMissingVersionKind(a), nil)
			}
			log.Warn().Stringer("migration", a).Msg("applied migration missing from supplied set")
		case d.Checksum != a.Checksum:
			if abortDivergent {
				return nil, NewError(NewDivergentVersionKind(a, d), nil)
			}
			log.Warn().Stringer("applied", a).Stringer("desired", d).Msg("applied migration checksum diverges from supplied one")
		}
	}

	toApply := make([]Migration, 0, len(desired))
	for _, d := range desired {
		if d.Version > maxApplied || d.Prefix == Rerunnable {
			toApply = append(toApply, d)
		}
	}

	return toApply, nil
}

func findRepeatedVersion(migrations []Migration) (Migration, bool) {
	seen := make(map[int64]struct{}, len(migrations))
	for _, m := range migrations {
		if _, ok := seen[m.Version]; ok {
			return m, true
		}
		seen[m.Version] = struct{}{}
	}
	return Migration{}, false
}
