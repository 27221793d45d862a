package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopfront/platform/pkg/hostname"
	"github.com/shopfront/platform/pkg/tenant"
)

// TenantResolver maps a tenant-candidate hostname to a tenant snapshot.
// *tenant.Resolver is the production implementation.
type TenantResolver interface {
	Resolve(ctx context.Context, hostname string) (*tenant.Tenant, error)
}

// Gateway is the per-request orchestrator: it classifies the hostname,
// resolves the tenant cache-first, enforces lifecycle state and the
// operator privilege boundary, and propagates the resolved identity to
// downstream handlers. All dependencies are constructor-injected.
type Gateway struct {
	cfg      Config
	resolver TenantResolver
	sessions SessionVerifier
	log      *slog.Logger
	registry map[hostname.Class]ClassHandler
}

// Option configures the gateway.
type Option func(*Gateway)

// WithSessionVerifier enables the privilege guard. Without it every
// caller is treated as unauthenticated and the guard never blocks.
func WithSessionVerifier(v SessionVerifier) Option {
	return func(g *Gateway) { g.sessions = v }
}

// WithLogger sets the logger for degraded-dependency and security
// events.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClassHandler registers or overrides the handler for a routing
// classification. New classifications are additive.
func WithClassHandler(class hostname.Class, h ClassHandler) Option {
	return func(g *Gateway) {
		if h != nil {
			g.registry[class] = h
		}
	}
}

// New creates a gateway over the given resolver.
func New(cfg Config, resolver TenantResolver, opts ...Option) *Gateway {
	if resolver == nil {
		panic("gateway: resolver is required")
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 250 * time.Millisecond
	}
	if cfg.AdminPathPrefix == "" {
		cfg.AdminPathPrefix = "/admin"
	}
	if cfg.NotFoundPath == "" {
		cfg.NotFoundPath = "/site-not-found"
	}
	if cfg.SuspendedPath == "" {
		cfg.SuspendedPath = "/suspended"
	}
	if cfg.ExpiredPath == "" {
		cfg.ExpiredPath = "/expired"
	}

	g := &Gateway{
		cfg:      cfg,
		log:      slog.Default(),
		resolver: resolver,
		registry: defaultRegistry(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// classifier builds the pure hostname classifier from config.
func (g *Gateway) classifier() hostname.Classifier {
	return hostname.Classifier{
		RootDomain:      g.cfg.RootDomain,
		MarketingHost:   g.cfg.MarketingHost,
		BrandToken:      g.cfg.BrandToken,
		DefaultTenant:   g.cfg.DefaultTenant,
		AdminPathPrefix: g.cfg.AdminPathPrefix,
	}
}

// Middleware returns the HTTP middleware that runs the routing pipeline
// in front of next. Classification happens before any I/O, so marketing
// and admin traffic never touches the cache or the store.
func (g *Gateway) Middleware() func(http.Handler) http.Handler {
	classifier := g.classifier()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := classifier.Classify(r.Host, r.URL.Path)

			handle, ok := g.registry[res.Class]
			if !ok {
				// Unknown classification: serve without tenant context
				// rather than failing the request.
				g.log.ErrorContext(r.Context(), "no handler registered for classification", "class", res.Class)
				handle = passthrough
			}

			handle(g, w, r, next, res)
		})
	}
}

// resolveAndGate runs resolution and the lifecycle gate, recovering any
// panic into a proceed-without-tenant decision so a resolution bug
// degrades a single request instead of failing it. The privilege guard
// runs outside this boundary and is never bypassed by the recovery.
func (g *Gateway) resolveAndGate(r *http.Request, host string) (decision Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.ErrorContext(r.Context(), "tenant resolution panicked, proceeding without tenant",
				"host", host, "panic", fmt.Sprint(rec))
			decision = proceed(nil)
		}
	}()

	t, err := g.resolver.Resolve(r.Context(), host)
	if err != nil {
		g.log.InfoContext(r.Context(), "tenant resolution failed closed",
			"host", host, "error", err)
	}

	return g.gate(host, t, err, time.Now())
}

func errPanic(rec any) error {
	return fmt.Errorf("panic: %v", rec)
}
