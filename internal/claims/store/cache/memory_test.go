package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.Get(ctx, "u1")
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "u1", "alice"))
	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	require.Equal(t, "alice", got)
	require.Equal(t, 1, c.Len())
	require.NoError(t, c.Ping(ctx))
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(20*time.Millisecond, 0)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "u1", "alice"))
	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "u1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMemory_Capacity(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute, 2)
	t.Cleanup(func() { _ = c.Close() })

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, id, id+"name"))
	}
	require.Equal(t, 2, c.Len())
}

func TestNoop(t *testing.T) {
	var c cache.Usernames = cache.Noop{}
	require.NoError(t, c.Set(context.Background(), "u1", "alice"))
	_, ok := c.Get(context.Background(), "u1")
	require.False(t, ok)
}
