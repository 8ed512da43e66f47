// Package router arma el árbol de rutas chi del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/hellocms/internal/deprecation"
	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/http/errors"
	"github.com/dropDatabas3/hellocms/internal/http/handlers"
	mw "github.com/dropDatabas3/hellocms/internal/http/middlewares"
	"github.com/dropDatabas3/hellocms/internal/rate"
	"github.com/dropDatabas3/hellocms/internal/templating"
	"github.com/dropDatabas3/hellocms/internal/web/request"
)

// Deps agrupa lo que necesitan las rutas.
type Deps struct {
	Matrix       *matrix.Service
	Renderer     *templating.EmailRenderer
	Deprecator   deprecation.Logger
	Deprecations repository.DeprecationRepository

	// Request configura la vista de request; su CSRF issuer también protege las rutas.
	Request    request.Options
	CSRFHeader string

	Checks map[string]handlers.Check

	// RateLimiter limita /v1 por IP y path. Nil deshabilita.
	RateLimiter rate.Limiter

	// Metrics sirve /metrics. Nil usa el registry default.
	Metrics http.Handler
}

// New devuelve el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errors.WriteError(w, errors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		errors.WriteError(w, errors.ErrMethodNotAllowed)
	})

	// ─── Health / métricas ───
	r.Get("/readyz", handlers.NewReadyzHandler(d.Checks))
	metricsHandler := d.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// ─── API v1 ───
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.RateLimiter}))
		r.Use(mw.WithCSRF(mw.CSRFConfig{
			Issuer:     d.Request.CSRF,
			HeaderName: d.CSRFHeader,
			CookieName: d.Request.CSRFCookieName,
		}))

		if d.Matrix != nil {
			blocks := handlers.NewBlocksHandler(d.Matrix)
			r.Get("/blocks/{id}", blocks.Get)
			r.Get("/blocks/{id}/locales", blocks.Locales)
			r.Post("/blocks/eager-map", blocks.EagerMap)
			r.Get("/elements/{id}/blocks", blocks.ByOwner)
			r.Get("/fields/{id}/block-fields", handlers.NewFieldsHandler(d.Matrix).BlockFields)
		}

		if d.Renderer != nil {
			r.Get("/templates/email/paths", handlers.NewTemplatesHandler(d.Renderer).EmailPaths)
		}

		if d.Deprecations != nil {
			r.Get("/deprecations", handlers.NewDeprecationsHandler(d.Deprecations).List)
		}

		r.Get("/request", handlers.NewRequestHandler(d.Request, d.Deprecator).Snapshot)
		r.Get("/csrf", handlers.NewCSRFHandler(d.Request.CSRF, d.CSRFHeader).Token)
	})

	return r
}
