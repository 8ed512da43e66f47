package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	c := NewMemory("t", 0)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, _ = c.Exists(ctx, "k")
	assert.False(t, ok)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Driver)
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
}

func TestMemory_TTLExpires(t *testing.T) {
	c := NewMemory("", time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SetNX(t *testing.T) {
	c := NewMemory("", 0)
	ctx := context.Background()

	first, err := c.SetNX(ctx, "once", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := c.SetNX(ctx, "once", "2", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	v, _ := c.Get(ctx, "once")
	assert.Equal(t, "1", v)
}

func TestNew_Kinds(t *testing.T) {
	c, err := New(Config{Kind: "memory"})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))

	_, err = New(Config{Kind: "memcached"})
	assert.Error(t, err)
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "k", prefixed("", "k"))
	assert.Equal(t, "p:k", prefixed("p", "k"))
}

func TestMemory_IncrFixedWindow(t *testing.T) {
	c := NewMemory("t", 0)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "hits", 30*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	time.Sleep(60 * time.Millisecond)
	n, err := c.Incr(ctx, "hits", 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "counter restarts after the window")
}
