package migrate

import (
	"strconv"
	"strings"
	"time"
)

// tablePlaceholder is substituted, by plain textual replacement, with the
// caller's configured history table name. Vendor-specific overrides are
// permitted only for assertTableTemplate (some backends can't express
// IF NOT EXISTS the same way SQLite/Postgres/MySQL do).
const tablePlaceholder = "%MIGRATION_TABLE_NAME%"

// DefaultMigrationTableName is used when the caller doesn't override it.
const DefaultMigrationTableName = "refinery_schema_history"

const assertTableTemplate = `CREATE TABLE IF NOT EXISTS ` + tablePlaceholder + ` (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_on TEXT NOT NULL,
	checksum TEXT NOT NULL
)`

const getLastTemplate = `SELECT version, name, applied_on, checksum FROM ` +
	tablePlaceholder + ` ORDER BY version DESC LIMIT 1`

const getAppliedTemplate = `SELECT version, name, applied_on, checksum FROM ` +
	tablePlaceholder + ` ORDER BY version ASC`

// AssertTableQuery renders the idempotent history-table DDL for tableName.
func AssertTableQuery(tableName string) string {
	return strings.ReplaceAll(assertTableTemplate, tablePlaceholder, tableName)
}

// GetLastAppliedQuery renders the query selecting the single highest-
// version history row. An empty result is valid (no migrations applied
// yet).
func GetLastAppliedQuery(tableName string) string {
	return strings.ReplaceAll(getLastTemplate, tablePlaceholder, tableName)
}

// GetAppliedQuery renders the query selecting every history row in
// ascending version order.
func GetAppliedQuery(tableName string) string {
	return strings.ReplaceAll(getAppliedTemplate, tablePlaceholder, tableName)
}

// insertMigrationQuery builds the per-row history insert for m, stamping
// the current UTC instant as the applied_on value. Checksums are rendered
// as decimal text so backends without a native unsigned 64-bit type don't
// overflow.
func insertMigrationQuery(m Migration, tableName string) string {
	appliedOn := time.Now().UTC().Format(time.RFC3339)
	checksum := strconv.FormatUint(m.Checksum, 10)
	name := strings.ReplaceAll(m.Name, "'", "''")

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(tableName)
	b.WriteString(" (version, name, applied_on, checksum) VALUES (")
	b.WriteString(strconv.FormatInt(m.Version, 10))
	b.WriteString(", '")
	b.WriteString(name)
	b.WriteString("', '")
	b.WriteString(appliedOn)
	b.WriteString("', '")
	b.WriteString(checksum)
	b.WriteString("')")
	return b.String()
}

// deleteMigrationQuery removes any existing history row for version. Used
// ahead of insertMigrationQuery for Rerunnable migrations, whose version
// already has a row after the first run — a plain INSERT would collide
// with the version PRIMARY KEY on every later re-apply.
func deleteMigrationQuery(version int64, tableName string) string {
	return "DELETE FROM " + tableName + " WHERE version = " + strconv.FormatInt(version, 10)
}

// historyWriteQueries returns the statement(s) that record m as applied.
// Rerunnable migrations get a DELETE ahead of the INSERT so re-applying
// them doesn't collide with the existing history row for that version.
func historyWriteQueries(m Migration, tableName string) []string {
	if m.Prefix == Rerunnable {
		return []string{deleteMigrationQuery(m.Version, tableName), insertMigrationQuery(m, tableName)}
	}
	return []string{insertMigrationQuery(m, tableName)}
}
