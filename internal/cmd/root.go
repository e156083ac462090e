// Package cmd wires schemarunner's configuration, logger, migration
// source and driver adapters into a small cobra command tree, grounded
// on blueman82-conductor's internal/cmd/root.go (NewRootCommand,
// subcommand registration, SilenceUsage on error).
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrYazdan/schemarunner/internal/config"
	"github.com/MrYazdan/schemarunner/internal/drivers/mysql"
	"github.com/MrYazdan/schemarunner/internal/drivers/pgdriver"
	"github.com/MrYazdan/schemarunner/internal/drivers/sqlite"
	"github.com/MrYazdan/schemarunner/internal/logger"
	"github.com/MrYazdan/schemarunner/internal/migrate"
)

// Version is injected at build time via -ldflags, same convention as
// blueman82-conductor's cmd/conductor/main.go.
var Version = "dev"

// NewRootCommand creates the root cobra command for schemarunner.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "schemarunner",
		Short:   "Apply versioned SQL migrations to a database",
		Version: Version,
		// Silence usage on errors to avoid duplicate help text.
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newStatusCommand())

	return root
}

// loadAll loads configuration and initializes the global logger, the
// shared setup step every subcommand runs before doing its own work.
func loadAll() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger.Init(cfg)
	return cfg, nil
}

// openDriver dials the configured backend and returns it as a
// migrate.ContextQuery plus an io.Closer to release the connection pool.
// Supported drivers are the three the domain stack wires: sqlite,
// postgres (via pgdriver/lib-pq) and mysql.
func openDriver(cfg config.DatabaseConfig) (migrate.ContextQuery, io.Closer, error) {
	switch cfg.Driver {
	case "sqlite":
		a, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	case "postgres":
		a, err := pgdriver.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	case "mysql":
		a, err := mysql.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
