package tenant

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// subdomainPattern ensures DNS-safe candidate subdomains: alphanumeric
// start, hyphens allowed, no dots.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// MaxSubdomainLength caps candidate subdomains at the DNS label limit.
const MaxSubdomainLength = 63

// Resolver maps tenant-candidate hostnames to tenant snapshots,
// consulting the cache before the store and populating the cache on miss.
// All dependencies are constructor-injected; the resolver holds no
// process-wide state.
type Resolver struct {
	store        Store
	cache        Cache
	ttl          time.Duration
	storeTimeout time.Duration
	log          *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTTL overrides the cache freshness window (default 5 minutes).
func WithTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithStoreTimeout bounds the store round trip (default 2 seconds).
func WithStoreTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.storeTimeout = d
		}
	}
}

// WithLogger sets the logger used for degraded-dependency reporting.
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver over the given store and cache.
// cache may be nil, which disables caching entirely.
func NewResolver(store Store, cache Cache, opts ...ResolverOption) *Resolver {
	if store == nil {
		panic("tenant: resolver requires a store")
	}
	if cache == nil {
		cache = NewNoopCache()
	}

	r := &Resolver{
		store:        store,
		cache:        cache,
		ttl:          DefaultTTL,
		storeTimeout: 2 * time.Second,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the tenant owning the hostname, or ErrTenantNotFound.
// The hostname must already be stripped of any port.
//
// Cache hits, positive or negative, never touch the store. Store misses
// and ambiguous matches are cached as negative entries. A store failure
// surfaces as ErrStoreUnavailable and is never cached, so the next
// request retries.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (*Tenant, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return nil, ErrTenantNotFound
	}

	// A degenerate entry (no tenant, no negative marker) falls through to
	// the store; returning its nil tenant would break the
	// tenant-or-ErrTenantNotFound contract.
	if entry, ok := r.cache.Get(ctx, hostname); ok && entry.valid() {
		if entry.NotFound {
			return nil, ErrTenantNotFound
		}
		return entry.Tenant, nil
	}

	// An invalid first label yields an empty candidate, which matches no
	// subdomain; the store still checks the full hostname as a custom domain.
	subdomain := candidateSubdomain(hostname)

	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	t, err := r.store.ByHostname(storeCtx, hostname, subdomain)
	switch {
	case errors.Is(err, ErrAmbiguousTenant):
		// Never pick a row arbitrarily; surface as not found.
		r.log.ErrorContext(ctx, "ambiguous tenant claim", "hostname", hostname)
		r.cacheNegative(ctx, hostname)
		return nil, ErrTenantNotFound
	case errors.Is(err, ErrTenantNotFound):
		r.cacheNegative(ctx, hostname)
		return nil, ErrTenantNotFound
	case err != nil:
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	r.cache.Set(ctx, hostname, Entry{Tenant: t, FetchedAt: time.Now()}, r.ttl)

	return t, nil
}

// Invalidate drops the cached entry for a hostname in every tier. Called
// by admin tooling after a tenant mutation (status or domain change).
func (r *Resolver) Invalidate(ctx context.Context, hostname string) {
	r.cache.Invalidate(ctx, strings.ToLower(strings.TrimSpace(hostname)))
}

func (r *Resolver) cacheNegative(ctx context.Context, hostname string) {
	r.cache.Set(ctx, hostname, Entry{NotFound: true, FetchedAt: time.Now()}, r.ttl)
}

// candidateSubdomain derives the candidate subdomain as the first label
// of the hostname. Returns "" when the label cannot name a tenant.
func candidateSubdomain(hostname string) string {
	label, _, _ := strings.Cut(hostname, ".")
	if label == "" || len(label) > MaxSubdomainLength || !subdomainPattern.MatchString(label) {
		return ""
	}
	return label
}
