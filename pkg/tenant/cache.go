package tenant

import (
	"context"
	"sync"
	"time"
)

// Entry is an immutable cache projection of a resolution result keyed by
// raw hostname. NotFound marks a negative entry: a hostname known to have
// no tenant, cached to spare the store repeated misses. TTL records the
// freshness window the entry was written with, so a tier without native
// expiry information (the distributed one) never serves it past that
// window.
type Entry struct {
	Tenant    *Tenant       `json:"tenant,omitempty"`
	NotFound  bool          `json:"not_found,omitempty"`
	FetchedAt time.Time     `json:"fetched_at"`
	TTL       time.Duration `json:"ttl,omitempty"`
}

// valid reports whether the entry carries a usable resolution result.
// A degenerate entry, neither tenant nor negative marker, can only come
// from a corrupt distributed-tier envelope and must read as a miss.
func (e Entry) valid() bool {
	return e.NotFound || e.Tenant != nil
}

// Cache is a hostname -> resolution snapshot cache tier. Implementations
// must be safe for concurrent use. Entries are always replaced wholesale,
// never partially updated. Failures inside a tier must surface as cache
// misses, never as resolution failures: the cache is an optimization, not
// a source of truth.
type Cache interface {
	// Get retrieves a fresh entry by hostname.
	Get(ctx context.Context, hostname string) (Entry, bool)

	// Set stores an entry under the hostname with the given TTL.
	Set(ctx context.Context, hostname string, entry Entry, ttl time.Duration)

	// Invalidate removes the entry for a hostname, typically triggered by
	// an admin-side tenant mutation.
	Invalidate(ctx context.Context, hostname string)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultTTL is the freshness window for cached resolution results.
const DefaultTTL = 5 * time.Minute

// DefaultCacheSize is the default maximum number of hostnames kept in the
// in-process tier.
const DefaultCacheSize = 1000

// memoryCache is the in-process cache tier: a bounded LRU map guarded by
// a mutex, with a janitor goroutine sweeping expired entries.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]memoryItem
	lru     []string
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemoryCache creates the in-process cache tier with the default size.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-process cache tier bounded to
// maxSize hostnames, evicting least-recently-used entries beyond it.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &memoryCache{
		items:   make(map[string]memoryItem),
		lru:     make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.janitor()

	return c
}

func (c *memoryCache) Get(ctx context.Context, hostname string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[hostname]
	if !exists {
		return Entry{}, false
	}

	if time.Now().After(item.expiresAt) {
		delete(c.items, hostname)
		c.removeLRU(hostname)
		return Entry{}, false
	}

	c.touchLRU(hostname)

	return item.entry, true
}

func (c *memoryCache) Set(ctx context.Context, hostname string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[hostname]; !exists && len(c.items) >= c.maxSize {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	c.items[hostname] = memoryItem{
		entry:     entry,
		expiresAt: time.Now().Add(ttl),
	}
	c.touchLRU(hostname)
}

func (c *memoryCache) Invalidate(ctx context.Context, hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, hostname)
	c.removeLRU(hostname)
}

// janitor periodically sweeps expired entries so negative entries for
// one-off hostnames do not pin memory until the next read.
func (c *memoryCache) janitor() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for hostname, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, hostname)
			c.removeLRU(hostname)
		}
	}
}

func (c *memoryCache) touchLRU(hostname string) {
	c.removeLRU(hostname)
	c.lru = append(c.lru, hostname)
}

func (c *memoryCache) removeLRU(hostname string) {
	for i, h := range c.lru {
		if h == hostname {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noopCache disables caching. Useful in tests and for forcing every
// resolution through the store.
type noopCache struct{}

// NewNoopCache creates a cache tier that never stores anything.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, hostname string) (Entry, bool) { return Entry{}, false }

func (noopCache) Set(ctx context.Context, hostname string, entry Entry, ttl time.Duration) {}

func (noopCache) Invalidate(ctx context.Context, hostname string) {}

func (noopCache) Close() error { return nil }
