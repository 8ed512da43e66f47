package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellocms/internal/config"
	httpserver "github.com/dropDatabas3/hellocms/internal/http"
	"github.com/dropDatabas3/hellocms/internal/http/handlers"
	"github.com/dropDatabas3/hellocms/internal/http/router"
	"github.com/dropDatabas3/hellocms/internal/metrics"
	"github.com/dropDatabas3/hellocms/internal/rate"
)

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if addr != "" {
				c.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := metrics.Register(nil); err != nil {
				return err
			}

			a, err := buildApp(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			deps := router.Deps{
				Matrix:     a.matrix,
				Renderer:   a.renderer,
				Deprecator: a.deprecator,
				Request:    a.requestOptions(),
				CSRFHeader: c.CSRF.HeaderName,
				Checks: map[string]handlers.Check{
					"store": a.store.Ping,
					"cache": a.cache.Ping,
				},
			}
			if c.Deprecation.Persist {
				deps.Deprecations = a.store.Deprecations()
			}
			if c.RateLimit.Enabled {
				deps.RateLimiter = rate.NewFixedWindow(a.cache, "rl:", c.RateLimit.Requests, config.Dur(c.RateLimit.Window, time.Minute))
			}

			return httpserver.Run(ctx, httpserver.ServerConfig{
				Addr:            c.Server.Addr,
				ReadTimeout:     config.Dur(c.Server.ReadTimeout, 15*time.Second),
				WriteTimeout:    config.Dur(c.Server.WriteTimeout, 15*time.Second),
				ShutdownTimeout: config.Dur(c.Server.ShutdownTimeout, 10*time.Second),
			}, router.New(deps))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Override de server.addr")
	return cmd
}

