// Package deprecation registra usos de APIs deprecadas: warning en el log (una
// vez por clave por ventana), contador prometheus y persistencia opcional.
package deprecation

import (
	"context"
	"time"

	"github.com/dropDatabas3/hellocms/internal/cache"
	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/metrics"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// Logger recibe avisos de deprecación.
type Logger interface {
	Log(ctx context.Context, key, message string)
}

// Deprecator implementa Logger.
type Deprecator struct {
	cache cache.Client
	repo  repository.DeprecationRepository
	ttl   time.Duration
	now   func() time.Time
}

// Option configura un Deprecator.
type Option func(*Deprecator)

// WithRepository persiste cada uso (best-effort).
func WithRepository(r repository.DeprecationRepository) Option {
	return func(d *Deprecator) { d.repo = r }
}

// WithDedupeTTL fija la ventana de deduplicación del warning.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(d *Deprecator) { d.ttl = ttl }
}

// New crea un Deprecator. c puede ser nil (sin deduplicación).
func New(c cache.Client, opts ...Option) *Deprecator {
	d := &Deprecator{cache: c, ttl: 10 * time.Minute, now: time.Now}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Log registra el uso de key. Nunca falla: los errores de cache o storage solo se loguean.
func (d *Deprecator) Log(ctx context.Context, key, message string) {
	metrics.DeprecationsLogged.WithLabelValues(key).Inc()
	log := logger.From(ctx).With(logger.Component("deprecation"), logger.Any("key", key))

	if d.first(ctx, key) {
		log.Warn(message)
	}

	if d.repo != nil {
		rec := repository.DeprecationRecord{
			Key:      key,
			Message:  message,
			Origin:   originFrom(ctx),
			LastSeen: d.now(),
		}
		if err := d.repo.Upsert(ctx, rec); err != nil {
			log.Error("persist deprecation failed", logger.Err(err))
		}
	}
}

// first devuelve true si key no se logueó dentro de la ventana.
func (d *Deprecator) first(ctx context.Context, key string) bool {
	if d.cache == nil {
		return true
	}
	ok, err := d.cache.SetNX(ctx, "deprecation:"+key, "1", d.ttl)
	if err != nil {
		return true
	}
	return ok
}

type originKey struct{}

// WithOrigin anota el contexto con el origen del uso (p.ej. el path del request).
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

func originFrom(ctx context.Context) string {
	s, _ := ctx.Value(originKey{}).(string)
	return s
}

var _ Logger = (*Deprecator)(nil)
