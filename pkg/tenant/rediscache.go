package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces tenant snapshots in the shared cache.
// Wire contract: GET/SET/DEL against "tenant:<hostname>", value is the
// JSON-serialized Entry, TTL 300 seconds.
const redisKeyPrefix = "tenant:"

// redisCache is the distributed cache tier shared across gateway
// instances. Every failure is logged and reported as a miss; resolution
// must never fail because this tier is down.
type redisCache struct {
	client  redis.UniversalClient
	timeout time.Duration
	log     *slog.Logger
}

// NewRedisCache creates the distributed cache tier on top of an existing
// redis client. Calls are bounded by timeout so a slow redis cannot stall
// the request pipeline; pass 0 for the 200ms default.
func NewRedisCache(client redis.UniversalClient, timeout time.Duration, log *slog.Logger) Cache {
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &redisCache{client: client, timeout: timeout, log: log}
}

func (c *redisCache) Get(ctx context.Context, hostname string) (Entry, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, redisKeyPrefix+hostname).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "distributed tenant cache read failed", "hostname", hostname, "error", err)
		}
		return Entry{}, false
	}

	return c.decode(ctx, hostname, raw)
}

// decode unmarshals a stored envelope, rejecting anything that does not
// carry a usable resolution result. Shared-cache contents are outside
// this process's control, so a corrupt or degenerate value reads as a
// miss rather than poisoning resolution.
func (c *redisCache) decode(ctx context.Context, hostname string, raw []byte) (Entry, bool) {
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.WarnContext(ctx, "distributed tenant cache entry corrupt", "hostname", hostname, "error", err)
		return Entry{}, false
	}
	if !entry.valid() {
		c.log.WarnContext(ctx, "distributed tenant cache entry degenerate", "hostname", hostname)
		return Entry{}, false
	}

	return entry, true
}

func (c *redisCache) Set(ctx context.Context, hostname string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		c.log.WarnContext(ctx, "distributed tenant cache encode failed", "hostname", hostname, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, redisKeyPrefix+hostname, raw, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "distributed tenant cache write failed", "hostname", hostname, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, hostname string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Del(ctx, redisKeyPrefix+hostname).Err(); err != nil {
		c.log.WarnContext(ctx, "distributed tenant cache delete failed", "hostname", hostname, "error", err)
	}
}

// Close is a no-op: the redis client is owned by the caller.
func (c *redisCache) Close() error { return nil }
