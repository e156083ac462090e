package config

import "strings"

// normalizeConfig normalizes configuration values.
func normalizeConfig(c *Config) {
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	c.Migration.Target = strings.ToLower(c.Migration.Target)
}
