package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellocms/internal/config"
	"github.com/dropDatabas3/hellocms/internal/templating"
)

func newPathsCmd(cfg func() *config.Config) *cobra.Command {
	renderer := func() *templating.EmailRenderer {
		c := cfg()
		return templating.NewEmailRenderer(templating.StaticPaths{
			Templates: c.Paths.EmailTemplates,
			Cache:     c.Paths.EmailTemplateCache,
		}, nil)
	}

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Resuelve paths de templates de email",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "relative <source>",
			Short: "Path del template relativo a la raíz de templates de email",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rel, err := renderer().RelativePath(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rel)
				return nil
			},
		},
		&cobra.Command{
			Use:   "duplicate <relative>",
			Short: "Path de la copia en cache para un path relativo",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), renderer().DuplicatePath(args[0]))
				return nil
			},
		},
	)
	return cmd
}
