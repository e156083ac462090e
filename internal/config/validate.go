package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validDrivers       = []string{"sqlite", "postgres", "mysql"}
	fakeTargetPattern  = regexp.MustCompile(`^fake(:\d+)?$`)
	versionTargetRegex = regexp.MustCompile(`^\d+$`)
)

// validateConfig validates the configuration and returns an error if invalid.
func validateConfig(c *Config) error {
	for _, validate := range []func() error{
		func() error { return validateDatabaseConfig(c.Database) },
		func() error { return validateMigrationConfig(c.Migration) },
		func() error { return validateLogConfig(c.Log) },
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateDatabaseConfig(d DatabaseConfig) error {
	if !slices.Contains(validDrivers, strings.ToLower(d.Driver)) {
		return fmt.Errorf("database.driver must be one of: %s", strings.Join(validDrivers, ", "))
	}
	if d.DSN == "" {
		return fmt.Errorf("database.dsn cannot be empty")
	}
	return nil
}

func validateMigrationConfig(m MigrationConfig) error {
	if m.Dir == "" {
		return fmt.Errorf("migration.dir cannot be empty")
	}
	if strings.Contains(m.Dir, "..") {
		return fmt.Errorf("migration.dir cannot contain '..'")
	}
	if m.TableName == "" {
		return fmt.Errorf("migration.table_name cannot be empty")
	}

	target := strings.ToLower(m.Target)
	switch {
	case target == "latest":
	case fakeTargetPattern.MatchString(target):
	case versionTargetRegex.MatchString(target):
	default:
		return fmt.Errorf("migration.target must be 'latest', 'fake', 'fake:N', or a version number, got %q", m.Target)
	}

	return nil
}

func validateLogConfig(l LogConfig) error {
	if !slices.Contains(validLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("log.level must be one of: %s", strings.Join(validLogLevels, ", "))
	}
	return nil
}
