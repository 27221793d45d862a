// Package tenant resolves storefront hostnames to tenant snapshots and
// propagates the resolved identity through request context.
//
// The package is built around three cooperating pieces:
//
//  1. Store - the read contract against the durable tenant record source
//     (PostgresStore is the production implementation)
//  2. Cache - hostname -> snapshot cache tiers (in-process LRU, Redis,
//     and a tiered composite), TTL-bounded, supporting negative entries
//  3. Resolver - the cache-first resolution pipeline
//
// # Usage
//
//	cache := tenant.NewTieredCache(
//		tenant.NewMemoryCache(),
//		tenant.NewRedisCache(redisClient, 0, log),
//	)
//	resolver := tenant.NewResolver(tenant.NewPostgresStore(pool), cache)
//
//	t, err := resolver.Resolve(ctx, "acme.shopfront.dev")
//
// Resolution is request-local and idempotent: repeated lookups of the
// same hostname within the TTL window are side-effect-free and return
// consistent results. The cache is strictly a performance optimization -
// resolution works correctly with an empty cache or an unreachable
// distributed tier, and only an unreachable store itself fails a lookup
// (with ErrStoreUnavailable, which the routing layer treats as
// not-found).
//
// Handlers downstream of the routing layer read the resolved identity
// from context via FromContext rather than re-deriving it from the raw
// hostname.
package tenant
