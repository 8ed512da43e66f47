package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellocms/internal/metrics"
)

// WithMetrics instrumenta requests con contador y latencia. La ruta se etiqueta
// con el patrón de chi ("/v1/blocks/{id}") para no explotar la cardinalidad.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := wrap(w)

			next.ServeHTTP(rec, r)

			method := strings.ToUpper(r.Method)
			route := routePattern(r)
			metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
