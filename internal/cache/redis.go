package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient implementa Client usando Redis.
type redisClient struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewRedis crea un cliente de cache Redis y verifica la conexión.
func NewRedis(cfg Config) (Client, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	} else if !strings.Contains(addr, ":") {
		addr += ":6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return newRedisFromClient(rdb, cfg.Prefix, cfg.DefaultTTL), nil
}

func newRedisFromClient(rdb *redis.Client, prefix string, defaultTTL time.Duration) *redisClient {
	return &redisClient{client: rdb, prefix: prefix, defaultTTL: defaultTTL}
}

func (c *redisClient) ttl(ttl time.Duration) time.Duration {
	switch {
	case ttl == 0 && c.defaultTTL > 0:
		return c.defaultTTL
	case ttl <= 0:
		return 0 // redis: sin expiración
	default:
		return ttl
	}
}

func (c *redisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, prefixed(c.prefix, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, prefixed(c.prefix, key), value, c.ttl(ttl)).Err()
}

func (c *redisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, prefixed(c.prefix, key), value, c.ttl(ttl)).Result()
}

func (c *redisClient) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	k := prefixed(c.prefix, key)
	n, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	// set expiry on first hit
	if n == 1 {
		if d := c.ttl(ttl); d > 0 {
			_ = c.client.Expire(ctx, k, d).Err()
		}
	}
	return n, nil
}

func (c *redisClient) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, prefixed(c.prefix, key)).Err()
}

func (c *redisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, prefixed(c.prefix, key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisClient) Close() error {
	return c.client.Close()
}

func (c *redisClient) Stats(ctx context.Context) (Stats, error) {
	info, err := c.client.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return Stats{}, err
	}
	keys, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Driver: "redis", Keys: keys}
	for _, line := range strings.Split(info, "\r\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch k {
		case "used_memory_human":
			st.UsedMemory = v
		case "keyspace_hits":
			st.Hits, _ = strconv.ParseInt(v, 10, 64)
		case "keyspace_misses":
			st.Misses, _ = strconv.ParseInt(v, 10, 64)
		}
	}
	return st, nil
}
