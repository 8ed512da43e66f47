package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache.
type memoryClient struct {
	prefix     string
	defaultTTL time.Duration
	c          *gocache.Cache
	hits       atomic.Int64
	misses     atomic.Int64
}

// NewMemory crea un cliente de cache en memoria. defaultTTL <= 0 significa sin expiración.
func NewMemory(prefix string, defaultTTL time.Duration) Client {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &memoryClient{
		prefix:     prefix,
		defaultTTL: defaultTTL,
		c:          gocache.New(defaultTTL, time.Minute),
	}
}

func (m *memoryClient) ttl(ttl time.Duration) time.Duration {
	switch {
	case ttl == 0:
		return gocache.DefaultExpiration
	case ttl < 0:
		return gocache.NoExpiration
	default:
		return ttl
	}
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(prefixed(m.prefix, key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.Set(prefixed(m.prefix, key), value, m.ttl(ttl))
	return nil
}

func (m *memoryClient) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	// Add falla si la key existe y no expiró
	if err := m.c.Add(prefixed(m.prefix, key), value, m.ttl(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryClient) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	k := prefixed(m.prefix, key)
	for i := 0; i < 2; i++ {
		_ = m.c.Add(k, int64(0), m.ttl(ttl))
		n, err := m.c.IncrementInt64(k, 1)
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("cache: incr %s: counter expired concurrently", key)
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(prefixed(m.prefix, key))
	return nil
}

func (m *memoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(prefixed(m.prefix, key))
	return ok, nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *memoryClient) Stats(context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(m.c.ItemCount()),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
