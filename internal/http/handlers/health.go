package handlers

import (
	"context"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// Check es un chequeo de dependencia para /readyz.
type Check func(ctx context.Context) error

// NewReadyzHandler corre todos los checks con timeout y responde 200 o 503.
func NewReadyzHandler(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		if v := os.Getenv("SERVICE_VERSION"); v != "" {
			w.Header().Set("X-Service-Version", v)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.From(r.Context()).Error("readiness check failed",
					logger.Component(name),
					logger.Err(err),
				)
				results[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "degraded"
		}
		writeJSON(w, status, map[string]any{"status": state, "checks": results})
	}
}
