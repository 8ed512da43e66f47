package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellocms/internal/config"
)

func newLocalesCmd(cfg func() *config.Config) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "locales <blockID>",
		Short: "Lista los locales soportados por un bloque Matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("blockID inválido: %q", args[0])
			}
			a, err := buildApp(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.matrix.Block(cmd.Context(), id, locale)
			if err != nil {
				return fmt.Errorf("block %d: %w", id, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(a.matrix.Locales(cmd.Context(), b), "\n"))
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "Locale con el que cargar el bloque")
	return cmd
}
