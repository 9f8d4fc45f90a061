package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/poiesic/chatsift/core"
)

// DefaultThreadCacheTTL bounds how stale a cached thread context may be.
const DefaultThreadCacheTTL = 30 * time.Second

type threadCacheEntry struct {
	tc       *core.ThreadContext
	fetched  time.Time
	negative bool // thread known absent
}

// CachedThreadSource wraps a ThreadSource with a TTL cache. Thread
// context is rebuilt from storage on every lookup otherwise, and short
// replies in an active thread hit the same thread repeatedly.
//
// All access to the cache map goes through the mutex; the map is never
// shared outside this struct.
type CachedThreadSource struct {
	source ThreadSource
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]threadCacheEntry
}

var _ ThreadSource = (*CachedThreadSource)(nil)

// NewCachedThreadSource wraps source with a TTL cache. A non-positive
// ttl uses the default.
func NewCachedThreadSource(source ThreadSource, ttl time.Duration) *CachedThreadSource {
	if ttl <= 0 {
		ttl = DefaultThreadCacheTTL
	}
	return &CachedThreadSource{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]threadCacheEntry),
	}
}

// ThreadContext returns the cached context when fresh, otherwise
// delegates to the underlying source and caches the result. Absent
// threads are cached too, so repeated lookups of a dangling thread id
// do not hammer storage.
func (c *CachedThreadSource) ThreadContext(ctx context.Context, threadID string) (*core.ThreadContext, error) {
	c.mu.Lock()
	entry, ok := c.entries[threadID]
	if ok && time.Since(entry.fetched) < c.ttl {
		c.mu.Unlock()
		if entry.negative {
			return nil, nil
		}
		return entry.tc, nil
	}
	c.mu.Unlock()

	tc, err := c.source.ThreadContext(ctx, threadID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[threadID] = threadCacheEntry{
		tc:       tc,
		fetched:  time.Now(),
		negative: tc == nil,
	}
	c.mu.Unlock()

	return tc, nil
}

// Invalidate drops the cached entry for a thread. Ingestion calls this
// when a new message lands in a thread so that subsequent enhancement
// sees the latest reply window.
func (c *CachedThreadSource) Invalidate(threadID string) {
	c.mu.Lock()
	delete(c.entries, threadID)
	c.mu.Unlock()
}
