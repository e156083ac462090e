package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrYazdan/schemarunner/internal/migrate"
	"github.com/MrYazdan/schemarunner/internal/source"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List pending and applied migrations without running any",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAll()
			if err != nil {
				return err
			}

			desired, err := source.Load(os.DirFS("."), cfg.Migration.Dir)
			if err != nil {
				return err
			}

			driver, closer, err := openDriver(cfg.Database)
			if err != nil {
				return err
			}
			defer closer.Close()

			if _, err := driver.Execute(cmd.Context(), []string{migrate.AssertTableQuery(cfg.Migration.TableName)}); err != nil {
				return err
			}

			applied, err := driver.QueryMigrations(cmd.Context(), migrate.GetAppliedQuery(cfg.Migration.TableName))
			if err != nil {
				return err
			}

			appliedVersions := make(map[int64]bool, len(applied))
			for _, m := range applied {
				appliedVersions[m.Version] = true
			}

			for _, m := range desired {
				state := "pending"
				if appliedVersions[m.Version] || m.Prefix == migrate.Rerunnable {
					state = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", state, m)
			}
			return nil
		},
	}
}
