package providers

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL matches the upstream revalidation window of one hour.
	DefaultCacheTTL = time.Hour
	// DefaultCacheEntries bounds how many distinct queries are held at once.
	DefaultCacheEntries = 1024
)

type cacheEntry struct {
	page    Page
	expires time.Time
}

// CachingProvider memoizes successful upstream pages per query for a TTL.
// Failures are never cached. Expired entries are swept on every insert and
// the entry count never exceeds maxEntries.
type CachingProvider struct {
	next       PlayerProvider
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachingProvider wraps next with a TTL cache. A non-positive ttl uses DefaultCacheTTL.
func NewCachingProvider(next PlayerProvider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingProvider{
		next:       next,
		ttl:        ttl,
		maxEntries: DefaultCacheEntries,
		now:        time.Now,
		entries:    make(map[string]cacheEntry),
	}
}

func (c *CachingProvider) FetchPlayers(ctx context.Context, q Query) (Page, error) {
	if c.next == nil {
		return Page{}, ErrProviderUnavailable
	}
	q = q.Normalize()
	key := q.Key()
	now := c.now()

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && now.Before(entry.expires) {
		c.mu.Unlock()
		return entry.page, nil
	}
	c.mu.Unlock()

	page, err := c.next.FetchPlayers(ctx, q)
	if err != nil {
		return Page{}, err
	}

	c.mu.Lock()
	c.store(key, cacheEntry{page: page, expires: now.Add(c.ttl)}, c.now())
	c.mu.Unlock()
	return page, nil
}

// Len reports how many entries are held, expired or not.
func (c *CachingProvider) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops expired entries and returns how many remain.
func (c *CachingProvider) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(now)
	return len(c.entries)
}

// store must be called with mu held.
func (c *CachingProvider) store(key string, entry cacheEntry, now time.Time) {
	c.sweep(now)
	if _, ok := c.entries[key]; !ok {
		for len(c.entries) >= c.maxEntries {
			if !c.evictOldest() {
				break
			}
		}
	}
	c.entries[key] = entry
}

func (c *CachingProvider) sweep(now time.Time) {
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
		}
	}
}

func (c *CachingProvider) evictOldest() bool {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, entry := range c.entries {
		if !found || entry.expires.Before(oldest) {
			oldestKey, oldest, found = key, entry.expires, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
	return found
}
