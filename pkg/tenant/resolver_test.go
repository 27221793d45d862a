package tenant_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/platform/pkg/tenant"
)

// stubStore serves canned tenants keyed by subdomain and custom domain.
type stubStore struct {
	mu      sync.Mutex
	tenants []*tenant.Tenant
	err     error
	calls   int
}

func (s *stubStore) add(t *tenant.Tenant) { s.tenants = append(s.tenants, t) }

func (s *stubStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubStore) ByHostname(ctx context.Context, hostname, subdomain string) (*tenant.Tenant, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	var matches []*tenant.Tenant
	for _, t := range s.tenants {
		if (subdomain != "" && t.Subdomain == subdomain) || (t.CustomDomain != "" && t.CustomDomain == hostname) {
			matches = append(matches, t)
		}
	}

	switch {
	case len(matches) == 0:
		return nil, tenant.ErrTenantNotFound
	case len(matches) > 1:
		return nil, tenant.ErrAmbiguousTenant
	default:
		return matches[0], nil
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("resolves by subdomain", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		acme := newTestTenant("acme", tenant.StatusActive)
		store.add(acme)

		resolver := tenant.NewResolver(store, tenant.NewNoopCache())

		got, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		assert.Equal(t, acme, got)
	})

	t.Run("resolves by custom domain", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		acme := newTestTenant("acme", tenant.StatusActive)
		acme.CustomDomain = "shop.acme-corp.com"
		store.add(acme)

		resolver := tenant.NewResolver(store, tenant.NewNoopCache())

		bySubdomain, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		byDomain, err2 := resolver.Resolve(ctx, "shop.acme-corp.com")
		require.NoError(t, err2)

		assert.Equal(t, acme, bySubdomain)
		assert.Equal(t, acme, byDomain)
	})

	t.Run("normalizes hostname case", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		store.add(newTestTenant("acme", tenant.StatusActive))

		resolver := tenant.NewResolver(store, tenant.NewNoopCache())

		got, err := resolver.Resolve(ctx, "ACME.Platform.Test")
		require.NoError(t, err)
		assert.Equal(t, "acme", got.Subdomain)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		store.add(newTestTenant("acme", tenant.StatusActive))

		cache := tenant.NewMemoryCache()
		defer cache.Close()
		resolver := tenant.NewResolver(store, cache)

		_, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		_, err = resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)

		assert.Equal(t, 1, store.callCount())
	})

	t.Run("negative result is cached", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		cache := tenant.NewMemoryCache()
		defer cache.Close()
		resolver := tenant.NewResolver(store, cache)

		_, err := resolver.Resolve(ctx, "ghost.platform.test")
		require.ErrorIs(t, err, tenant.ErrTenantNotFound)
		_, err = resolver.Resolve(ctx, "ghost.platform.test")
		require.ErrorIs(t, err, tenant.ErrTenantNotFound)

		assert.Equal(t, 1, store.callCount())
	})

	t.Run("expired cache entry refetches", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		store.add(newTestTenant("acme", tenant.StatusActive))

		cache := tenant.NewMemoryCache()
		defer cache.Close()
		resolver := tenant.NewResolver(store, cache, tenant.WithTTL(10*time.Millisecond))

		_, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		_, err = resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		assert.Equal(t, 2, store.callCount())
	})

	t.Run("ambiguous claim fails safe as not found", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		store.add(newTestTenant("acme", tenant.StatusActive))
		dup := newTestTenant("dup", tenant.StatusActive)
		dup.CustomDomain = "acme.platform.test"
		store.add(dup)

		resolver := tenant.NewResolver(store, tenant.NewNoopCache())

		_, err := resolver.Resolve(ctx, "acme.platform.test")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("store failure is not cached", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{err: errors.New("connection refused")}
		cache := tenant.NewMemoryCache()
		defer cache.Close()
		resolver := tenant.NewResolver(store, cache)

		_, err := resolver.Resolve(ctx, "acme.platform.test")
		require.ErrorIs(t, err, tenant.ErrStoreUnavailable)

		// The outage must not poison the cache: recovery is immediate.
		store.mu.Lock()
		store.err = nil
		store.tenants = []*tenant.Tenant{newTestTenant("acme", tenant.StatusActive)}
		store.mu.Unlock()

		got, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		assert.Equal(t, "acme", got.Subdomain)
	})

	t.Run("degenerate cache entry falls through to the store", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		acme := newTestTenant("acme", tenant.StatusActive)
		store.add(acme)

		// A shared-cache envelope can decode to an entry carrying neither
		// a tenant nor a negative marker; it must read as a miss.
		cache := newStubCache()
		cache.entries["acme.platform.test"] = tenant.Entry{FetchedAt: time.Now()}
		cache.entries["ghost.platform.test"] = tenant.Entry{FetchedAt: time.Now()}

		resolver := tenant.NewResolver(store, cache)

		got, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, acme.ID, got.ID)
		assert.Equal(t, 1, store.callCount())

		got, err = resolver.Resolve(ctx, "ghost.platform.test")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
		assert.Nil(t, got)
	})

	t.Run("suspended tenant resolves for the gate to classify", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		store.add(newTestTenant("oldstore", tenant.StatusSuspended))

		resolver := tenant.NewResolver(store, tenant.NewNoopCache())

		got, err := resolver.Resolve(ctx, "oldstore.platform.test")
		require.NoError(t, err)
		assert.Equal(t, tenant.StatusSuspended, got.Status)
	})

	t.Run("empty hostname is not found", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.NewResolver(&stubStore{}, tenant.NewNoopCache())

		_, err := resolver.Resolve(ctx, "")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("invalidate drops the cached entry", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		store.add(newTestTenant("acme", tenant.StatusActive))

		cache := tenant.NewMemoryCache()
		defer cache.Close()
		resolver := tenant.NewResolver(store, cache)

		_, err := resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)

		resolver.Invalidate(ctx, "acme.platform.test")

		_, err = resolver.Resolve(ctx, "acme.platform.test")
		require.NoError(t, err)
		assert.Equal(t, 2, store.callCount())
	})

	t.Run("repeated resolution is consistent", func(t *testing.T) {
		t.Parallel()

		store := &stubStore{}
		acme := newTestTenant("acme", tenant.StatusActive)
		store.add(acme)

		cache := tenant.NewMemoryCache()
		defer cache.Close()
		resolver := tenant.NewResolver(store, cache)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					got, err := resolver.Resolve(ctx, "acme.platform.test")
					assert.NoError(t, err)
					assert.Equal(t, acme.ID, got.ID)
				}
			}()
		}
		wg.Wait()
	})
}
