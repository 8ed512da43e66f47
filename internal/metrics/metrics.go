// Package metrics agrupa las métricas Prometheus del servicio. Vive en un paquete
// propio para que dominio y HTTP puedan usarlas sin ciclos de imports.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EagerLoadResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eagerload_resolutions_total",
		Help: "Resoluciones de mapas de eager-loading por tipo de elemento y resultado",
	}, []string{"element_type", "result"}) // result: applied|not_applicable|error

	DeprecationsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deprecations_total",
		Help: "Usos de APIs deprecadas por clave",
	}, []string{"key"})

	TemplateRenders = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "email_template_render_seconds",
		Help:    "Duración de renders de templates de email",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"result"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Register registra todas las métricas en reg (o en el registry default si es nil).
// Registrar dos veces no es error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		EagerLoadResolutions, DeprecationsLogged, TemplateRenders, HTTPRequests, HTTPDuration,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// ObserveEagerLoad cuenta una resolución de eager-loading.
func ObserveEagerLoad(elementType, result string) {
	EagerLoadResolutions.WithLabelValues(elementType, result).Inc()
}

// ObserveRender registra la duración de un render de template.
func ObserveRender(start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	TemplateRenders.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
