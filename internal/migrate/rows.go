package migrate

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// ScanHistoryRows reads rows in the fixed column order the history table
// contract mandates — (version, name, applied_on, checksum)
// — and constructs Applied Migration values. Shared by every
// internal/drivers/* adapter so the parsing rules (RFC 3339 timestamps,
// decimal-text u64 checksums) live in exactly one place.
//
// A malformed applied_on or checksum is a programmer error: this package
// is the only thing that ever writes those columns. It's still reported
// as a wrapped error rather than a panic, because the row came from an
// external system this package doesn't fully control (a hand-edited
// history table, a restored backup, a different tool entirely).
func ScanHistoryRows(rows *sql.Rows) ([]Migration, error) {
	var migrations []Migration
	for rows.Next() {
		var (
			version   int64
			name      string
			appliedOn string
			checksum  string
		)
		if err := rows.Scan(&version, &name, &appliedOn, &checksum); err != nil {
			return nil, fmt.Errorf("migrate: scan history row: %w", err)
		}

		parsedTime, err := time.Parse(time.RFC3339, appliedOn)
		if err != nil {
			return nil, fmt.Errorf("migrate: history row %d has a malformed applied_on %q: %w", version, appliedOn, err)
		}
		parsedChecksum, err := strconv.ParseUint(checksum, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migrate: history row %d has a malformed checksum %q: %w", version, checksum, err)
		}

		migrations = append(migrations, NewApplied(version, name, parsedTime, parsedChecksum))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("migrate: iterating history rows: %w", err)
	}
	return migrations, nil
}
