package cmd

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MrYazdan/schemarunner/internal/lock"
	"github.com/MrYazdan/schemarunner/internal/migrate"
	"github.com/MrYazdan/schemarunner/internal/source"
)

var errAlreadyRunning = errors.New("another schemarunner migrate is already running against this directory")

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations up to the configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAll()
			if err != nil {
				return err
			}

			// Exclusivity guard: two concurrent schemarunner invocations
			// against the same database must not race each other's
			// ASSERT_TABLE/SELECT/INSERT sequence. A lock file inside the
			// migrations directory is the caller-level guard for that.
			runLock := lock.New(cfg.Migration.Dir + "/.schemarunner.lock")
			acquired, err := runLock.TryLock()
			if err != nil {
				return err
			}
			if !acquired {
				log.Error().Msg("another schemarunner migrate is already running against this directory")
				return errAlreadyRunning
			}
			defer runLock.Unlock()

			migrations, err := source.Load(os.DirFS("."), cfg.Migration.Dir)
			if err != nil {
				return err
			}

			opts, err := cfg.Migration.Options()
			if err != nil {
				return err
			}

			driver, closer, err := openDriver(cfg.Database)
			if err != nil {
				return err
			}
			defer closer.Close()

			report, err := migrate.MigrateContext(cmd.Context(), driver, migrations, opts)
			if err != nil {
				return err
			}

			log.Info().Int("applied", len(report.AppliedMigrations())).Msg("migrate complete")
			return nil
		},
	}
}
