package tenant

import (
	"context"
	"time"
)

// tieredCache composes the in-process tier with an optional distributed
// tier. Reads check local first; a distributed hit is backfilled into the
// local tier for the remainder of its freshness window so an entry is
// never served past the TTL it was written with.
type tieredCache struct {
	local  Cache
	remote Cache
}

// NewTieredCache combines a local and a remote cache tier. remote may be
// nil, which degrades to local-only caching.
func NewTieredCache(local, remote Cache) Cache {
	if local == nil {
		local = NewMemoryCache()
	}
	if remote == nil {
		return local
	}
	return &tieredCache{local: local, remote: remote}
}

func (c *tieredCache) Get(ctx context.Context, hostname string) (Entry, bool) {
	if entry, ok := c.local.Get(ctx, hostname); ok {
		return entry, true
	}

	entry, ok := c.remote.Get(ctx, hostname)
	if !ok {
		return Entry{}, false
	}

	window := entry.TTL
	if window <= 0 {
		window = DefaultTTL
	}
	remaining := window - time.Since(entry.FetchedAt)
	if remaining <= 0 {
		return Entry{}, false
	}
	c.local.Set(ctx, hostname, entry, remaining)

	return entry, true
}

func (c *tieredCache) Set(ctx context.Context, hostname string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// Stamp the window into the entry so a remote hit on another gateway
	// instance honors the TTL this one wrote, not the global default.
	entry.TTL = ttl
	c.local.Set(ctx, hostname, entry, ttl)
	c.remote.Set(ctx, hostname, entry, ttl)
}

func (c *tieredCache) Invalidate(ctx context.Context, hostname string) {
	c.local.Invalidate(ctx, hostname)
	c.remote.Invalidate(ctx, hostname)
}

func (c *tieredCache) Close() error {
	if err := c.local.Close(); err != nil {
		return err
	}
	return c.remote.Close()
}
