// Package rate implementa rate limiting de ventana fija sobre cache.Client,
// así funciona igual con el cache en memoria o con Redis.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/hellocms/internal/cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// FixedWindow: ventana fija sencilla (INCR + EXPIRE).
type FixedWindow struct {
	Cache  cache.Client
	Prefix string
	Max    int64
	Window time.Duration

	now func() time.Time
}

func NewFixedWindow(c cache.Client, prefix string, max int, window time.Duration) *FixedWindow {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{
		Cache:  c,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.Window)
	ttl := winStart.Add(l.Window).Sub(now)
	k := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.Cache.Incr(ctx, k, l.Window)
	if err != nil {
		return Result{}, err
	}

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !allowed {
		// Retry after: resto de la ventana
		res.RetryAfter = ttl
	}
	return res, nil
}
