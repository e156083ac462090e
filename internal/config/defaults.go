package config

import "github.com/spf13/viper"

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "schemarunner.db")

	v.SetDefault("migration.dir", "migrations")
	v.SetDefault("migration.table_name", "refinery_schema_history")
	v.SetDefault("migration.target", "latest")
	v.SetDefault("migration.grouped", false)
	v.SetDefault("migration.abort_divergent", true)
	v.SetDefault("migration.abort_missing", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
