package storage

import (
	"context"
	"maps"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

// MemoryCache is the in-process CacheRepository used when no Redis address
// is configured. Idempotency keys expire after the same TTL Redis uses.
type MemoryCache struct {
	mu           sync.Mutex
	keys         map[string]time.Time
	ttl          time.Duration
	now          func() time.Time
	nextSweep    time.Time
	version      int64
	availability map[int]int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		keys:    make(map[string]time.Time),
		ttl:     idempotencyKeyTTL,
		now:     time.Now,
		version: -1,
	}
}

func (c *MemoryCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)

	if expires, ok := c.keys[key]; ok && now.Before(expires) {
		return false, nil
	}
	c.keys[key] = now.Add(c.ttl)
	return true, nil
}

// sweep drops expired keys, at most once per interval.
func (c *MemoryCache) sweep(now time.Time) {
	if now.Before(c.nextSweep) {
		return
	}
	for k, expires := range c.keys {
		if !now.Before(expires) {
			delete(c.keys, k)
		}
	}
	c.nextSweep = now.Add(memorySweepInterval)
}

func (c *MemoryCache) ReleaseIdempotency(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
	return nil
}

func (c *MemoryCache) PublishAvailability(ctx context.Context, version int64, counts map[int]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version <= c.version {
		return nil
	}
	c.version = version
	c.availability = maps.Clone(counts)
	return nil
}

func (c *MemoryCache) ClearAvailability(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = -1
	c.availability = nil
	return nil
}

// Availability returns the last published counts and their version.
func (c *MemoryCache) Availability(ctx context.Context) (int64, map[int]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.availability == nil {
		return c.version, map[int]int{}, nil
	}
	return c.version, maps.Clone(c.availability), nil
}
