package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory is a process-local cache backed by ttlcache.
type Memory struct {
	cache *ttlcache.Cache[string, string]
}

// NewMemory starts the expiry loop; call Close to stop it.
func NewMemory(ttl time.Duration, capacity uint64) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts := []ttlcache.Option[string, string]{
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, string](capacity))
	}

	c := ttlcache.New(opts...)
	go c.Start()

	return &Memory{cache: c}
}

func (m *Memory) Get(_ context.Context, id string) (string, bool) {
	item := m.cache.Get(id)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func (m *Memory) Set(_ context.Context, id, username string) error {
	m.cache.Set(id, username, ttlcache.DefaultTTL)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Len() int { return m.cache.Len() }

func (m *Memory) Close() error {
	m.cache.Stop()
	return nil
}
