// Command hellocms sirve la API de contenido y expone herramientas de operación.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellocms/internal/config"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath = envOr("HELLOCMS_CONFIG", "")
		envFile    = ".env"
		cfg        *config.Config
	)

	root := &cobra.Command{
		Use:           "hellocms",
		Short:         "Servicio de contenido: bloques Matrix, templates de email y variables de request",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional; las variables ya definidas tienen prioridad.
			if _, err := os.Stat(envFile); err == nil {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			}
			c, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = c
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "hellocms"})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", configPath, "Path al YAML de configuración (env HELLOCMS_CONFIG)")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "Archivo .env a cargar si existe")

	get := func() *config.Config { return cfg }
	root.AddCommand(
		newServeCmd(get),
		newMigrateCmd(get),
		newPathsCmd(get),
		newLocalesCmd(get),
		newMailCmd(get),
	)
	return root
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
