// Package cache provee un cliente de cache key/value con dos backends:
//
//   - memory (in-process, go-cache) para desarrollo y tests
//   - redis (distribuido) para producción
//
// Los repositorios decorados en store/cached y el deduplicador de deprecaciones
// lo usan a través de Client.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. Si ttl es 0 se usa el TTL por defecto del cliente;
	// si es negativo, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX guarda el valor solo si la key no existe. Retorna true si lo guardó.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Incr incrementa un contador y devuelve el valor nuevo. Al crearse, el
	// contador expira tras ttl (ventana fija).
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del cache.
type Stats struct {
	Driver     string `json:"driver"`
	Keys       int64  `json:"keys"`
	UsedMemory string `json:"used_memory,omitempty"`
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind       string // "memory" | "redis"
	Addr       string // host:port de redis
	Password   string
	DB         int
	Prefix     string // prefijo para todas las keys
	DefaultTTL time.Duration
}

// ErrNotFound indica que la key no existe (o expiró).
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
