// Package cache stores executor results in memory, keyed by the analyzer's
// deterministic hash. Staleness is judged lazily at read time against the
// caller-supplied TTL; stale entries stay in place until overwritten.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// MemoryCache is a mutex-guarded map of cache entries shared by every
// orchestration call within one process.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]domain.CacheEntry
	maxEntries int
	now        func() time.Time

	hits   int64
	misses int64
}

// Option customizes a MemoryCache.
type Option func(*MemoryCache)

// WithMaxEntries bounds the cache to n entries, evicting oldest-first on Put.
// Zero keeps the cache unbounded.
func WithMaxEntries(n int) Option {
	return func(c *MemoryCache) { c.maxEntries = n }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) { c.now = now }
}

// NewMemoryCache builds an empty cache.
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]domain.CacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements ports.CacheStore. An entry older than ttl is reported as a
// miss but left in place; it will be replaced by the next Put for its key.
func (c *MemoryCache) Get(key string, ttl time.Duration) (domain.Result, bool) {
	if key == "" {
		return domain.Result{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.CreatedAt) >= ttl {
		c.miss()
		return domain.Result{}, false
	}
	c.hit()
	result := entry.Result
	result.FromCache = true
	return result, true
}

// Put implements ports.CacheStore.
func (c *MemoryCache) Put(key string, result domain.Result) {
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = domain.CacheEntry{
		Key:       key,
		Result:    result,
		CreatedAt: c.now(),
	}
	c.evictIfNeeded()
}

// Size implements ports.CacheStore.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear implements ports.CacheStore.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]domain.CacheEntry)
}

// Entries lists cache entries ordered oldest-first (best-effort view).
func (c *MemoryCache) Entries() []domain.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]domain.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries
}

// Stats reports hit/miss counters.
func (c *MemoryCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *MemoryCache) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *MemoryCache) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// evictIfNeeded drops oldest entries beyond the bound. Caller holds the lock.
func (c *MemoryCache) evictIfNeeded() {
	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}
	type aged struct {
		key string
		at  time.Time
	}
	infos := make([]aged, 0, len(c.entries))
	for key, entry := range c.entries {
		infos = append(infos, aged{key: key, at: entry.CreatedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].at.Before(infos[j].at) })
	for i := 0; len(c.entries) > c.maxEntries; i++ {
		delete(c.entries, infos[i].key)
	}
}

var _ ports.CacheStore = (*MemoryCache)(nil)
