// Package config loads schemarunner's configuration in three layers —
// defaults, then an optional file, then environment variables —
// unmarshalled with viper and validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete configuration schema for schemarunner.
//
// Configuration sources (in order of precedence):
//  1. Defaults
//  2. Configuration file (optional)
//  3. Environment variables
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Migration MigrationConfig `mapstructure:"migration" yaml:"migration"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig selects and connects to the backend the migrations run
// against.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // sqlite, postgres, mysql
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// MigrationConfig controls discovery and run behaviour, mapping directly
// onto migrate.Options plus the filesystem location migrations are
// loaded from.
type MigrationConfig struct {
	Dir            string `mapstructure:"dir" yaml:"dir"`
	TableName      string `mapstructure:"table_name" yaml:"table_name"`
	Target         string `mapstructure:"target" yaml:"target"` // "latest", "fake", "fake:N", or a version number
	Grouped        bool   `mapstructure:"grouped" yaml:"grouped"`
	AbortDivergent bool   `mapstructure:"abort_divergent" yaml:"abort_divergent"`
	AbortMissing   bool   `mapstructure:"abort_missing" yaml:"abort_missing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error, fatal, panic
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"` // human-readable console output
}

// Load loads configuration from defaults, configuration file, and
// environment variables, then validates the result.
//
// The function fails fast on:
//   - Invalid configuration file
//   - Invalid or missing required configuration values
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SCHEMARUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if configDir := getConfigDir(); configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalizeConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getConfigDir returns the appropriate config directory for the current OS.
func getConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "schemarunner")
		}
		return ""
	}

	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".schemarunner")
	}
	return ""
}
