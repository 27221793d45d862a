package tenant

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableClient points at a closed loopback port so every command
// fails with a connection error.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

type fixedStore struct {
	tenant *Tenant
}

func (s fixedStore) ByHostname(ctx context.Context, hostname, subdomain string) (*Tenant, error) {
	if s.tenant != nil && s.tenant.Subdomain == subdomain {
		return s.tenant, nil
	}
	return nil, ErrTenantNotFound
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("every operation degrades to a miss when redis is down", func(t *testing.T) {
		t.Parallel()

		cache := NewRedisCache(unreachableClient(t), 100*time.Millisecond, discardLogger())

		cache.Set(ctx, "acme.test", Entry{NotFound: true, FetchedAt: time.Now()}, time.Minute)

		_, ok := cache.Get(ctx, "acme.test")
		assert.False(t, ok)

		cache.Invalidate(ctx, "acme.test")
		require.NoError(t, cache.Close())
	})

	t.Run("resolution succeeds with the distributed tier down", func(t *testing.T) {
		t.Parallel()

		local := NewMemoryCache()
		defer local.Close()
		cache := NewTieredCache(local, NewRedisCache(unreachableClient(t), 100*time.Millisecond, discardLogger()))

		acme := &Tenant{
			ID:        uuid.New(),
			Subdomain: "acme",
			Name:      "acme store",
			Status:    StatusActive,
			CreatedAt: time.Now(),
		}
		resolver := NewResolver(fixedStore{acme}, cache, WithLogger(discardLogger()))

		got, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		assert.Equal(t, acme.ID, got.ID)

		// The broken tier stays an optimization: the second read is
		// served from the local tier without touching redis again.
		got, err = resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		assert.Equal(t, acme.ID, got.ID)
	})

	t.Run("corrupt envelope reads as a miss", func(t *testing.T) {
		t.Parallel()

		cache := &redisCache{log: discardLogger()}

		_, ok := cache.decode(ctx, "acme.test", []byte("not json"))
		assert.False(t, ok)
	})

	t.Run("degenerate envelope reads as a miss", func(t *testing.T) {
		t.Parallel()

		cache := &redisCache{log: discardLogger()}

		// Valid JSON, but neither a tenant nor a negative marker.
		_, ok := cache.decode(ctx, "acme.test", []byte("{}"))
		assert.False(t, ok)
	})

	t.Run("well-formed envelope decodes", func(t *testing.T) {
		t.Parallel()

		cache := &redisCache{log: discardLogger()}

		raw, err := json.Marshal(Entry{NotFound: true, FetchedAt: time.Now(), TTL: time.Minute})
		require.NoError(t, err)

		entry, ok := cache.decode(ctx, "ghost.test", raw)
		require.True(t, ok)
		assert.True(t, entry.NotFound)
		assert.Equal(t, time.Minute, entry.TTL)
	})
}
