package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellocms/internal/config"
	"github.com/dropDatabas3/hellocms/internal/email"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/templating"
)

func newMailCmd(cfg func() *config.Config) *cobra.Command {
	var (
		to      string
		subject string
		data    string
	)
	cmd := &cobra.Command{
		Use:   "mail <template>",
		Short: "Renderiza un template de email (relativo a paths.email_templates) y lo envía por SMTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if c.SMTP.Host == "" {
				return fmt.Errorf("smtp.host no configurado")
			}
			if to == "" {
				return fmt.Errorf("--to es requerido")
			}
			vars := map[string]any{}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &vars); err != nil {
					return fmt.Errorf("--data: %w", err)
				}
			}

			renderer := templating.NewEmailRenderer(templating.StaticPaths{
				Templates: c.Paths.EmailTemplates,
				Cache:     c.Paths.EmailTemplateCache,
			}, nil)
			sender := email.NewSMTPSender(c.SMTP.Host, c.SMTP.Port, c.SMTP.From, c.SMTP.Username, c.SMTP.Password)
			if c.SMTP.TLSMode != "" {
				sender.TLSMode = c.SMTP.TLSMode
			}
			sender.InsecureSkipVerify = c.SMTP.InsecureSkipVerify

			if err := email.NewMailer(renderer, sender).Send(cmd.Context(), to, subject, args[0], vars); err != nil {
				return err
			}
			logger.Named("mail").Info("email sent", logger.Template(args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Destinatario")
	cmd.Flags().StringVar(&subject, "subject", "hellocms", "Asunto")
	cmd.Flags().StringVar(&data, "data", "", "Variables del template en JSON")
	return cmd
}
