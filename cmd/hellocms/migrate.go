package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellocms/internal/config"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/store/pg"
	migrations "github.com/dropDatabas3/hellocms/migrations/postgres"
)

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de Postgres pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				migs, err := pg.ParseMigrations(migrations.PostgresFS, migrations.PostgresDir)
				if err != nil {
					return err
				}
				for _, m := range migs {
					fmt.Fprintf(cmd.OutOrStdout(), "%04d %s\n", m.Version, m.Name)
				}
				return nil
			}

			c := cfg()
			if c.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate requiere storage.driver=postgres (actual %q)", c.Storage.Driver)
			}
			st, err := pg.New(cmd.Context(), c.Storage.DSN, pg.PoolConfig{})
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := pg.Migrate(cmd.Context(), st.Pool(), migrations.PostgresFS, migrations.PostgresDir)
			if err != nil {
				return err
			}
			logger.Named("migrate").Info("migrations done",
				logger.Any("applied", res.Applied),
				logger.Any("skipped", res.Skipped),
				logger.DurationMs(res.Duration.Milliseconds()),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Solo lista las migraciones embebidas")
	return cmd
}
