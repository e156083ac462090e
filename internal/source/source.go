// Package source discovers migrate.Migration values from SQL files, the
// external collaborator the execution core deliberately leaves
// unspecified (the core only consumes ready-made Migration values). The
// filename convention follows "migration name must be in the format
// {number}(U|V|R)__{name}", generalized from a hand-registered migration
// list to a parsed directory listing.
package source

import (
	"fmt"
	"hash/fnv"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"github.com/MrYazdan/schemarunner/internal/migrate"
)

// filenamePattern matches "{version}{prefix}__{name}.sql" where prefix is
// one of V (Versioned), U (Unversioned) or R (Rerunnable). Versioned may
// also omit the letter entirely ("{version}__{name}.sql"), accepting a
// bare digit prefix.
var filenamePattern = regexp.MustCompile(`^(\d+)([VUR]?)__(.+)\.sql$`)

// Load reads every *.sql file directly under dir (no recursion) and
// parses it into a migrate.Migration. Files that don't match
// filenamePattern are skipped, matching the framing of discovery
// as a thin supplier that hands the core only well-formed values; a
// misnamed file is the author's mistake to fix, not a run-time error to
// propagate, since a partial directory listing is expected during normal
// editing (an in-progress new migration, a README, a .gitkeep).
//
// Migrations are returned in ascending version order; ties are broken by
// name so Load is deterministic across filesystem implementations that
// don't guarantee directory order (embed.FS does, but io/fs in general
// does not).
func Load(fsys fs.FS, dir string) ([]migrate.Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, migrate.NewError(migrate.NewInvalidMigrationPathKind(dir, err), nil)
	}

	var migrations []migrate.Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, ok, err := parseEntry(fsys, dir, entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			migrations = append(migrations, m)
		}
	}

	sort.Slice(migrations, func(i, j int) bool {
		if migrations[i].Version != migrations[j].Version {
			return migrations[i].Version < migrations[j].Version
		}
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

func parseEntry(fsys fs.FS, dir, filename string) (migrate.Migration, bool, error) {
	match := filenamePattern.FindStringSubmatch(filename)
	if match == nil {
		return migrate.Migration{}, false, nil
	}

	version, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return migrate.Migration{}, false, migrate.NewError(migrate.NewInvalidVersionKind(), nil)
	}

	prefix, err := parsePrefix(match[2])
	if err != nil {
		return migrate.Migration{}, false, migrate.NewError(migrate.NewInvalidNameKind(), nil)
	}

	path := dir + "/" + filename
	body, err := fs.ReadFile(fsys, path)
	if err != nil {
		return migrate.Migration{}, false, migrate.NewError(migrate.NewInvalidMigrationFileKind(path, err), nil)
	}

	sql := string(body)
	m := migrate.Migration{
		Version:  version,
		Prefix:   prefix,
		Name:     match[3],
		Checksum: checksum(version, prefix, match[3], sql),
		SQL:      &sql,
		State:    migrate.Pending,
	}
	return m, true, nil
}

func parsePrefix(letter string) (migrate.Prefix, error) {
	switch letter {
	case "", "V":
		return migrate.Versioned, nil
	case "U":
		return migrate.Unversioned, nil
	case "R":
		return migrate.Rerunnable, nil
	default:
		return migrate.Prefix(0), fmt.Errorf("unrecognized prefix letter %q", letter)
	}
}

// checksum hashes the fields that make a migration's identity meaningful
// to a re-run: a body edit to an already-applied Versioned migration must
// change the checksum so VerifyMigrations can flag it as divergent.
func checksum(version int64, prefix migrate.Prefix, name, sql string) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d\x00%s\x00%s\x00", version, prefix, name)
	h.Write([]byte(sql))
	return h.Sum64()
}
