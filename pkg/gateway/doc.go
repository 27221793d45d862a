// Package gateway is the request-time routing core of the platform: it
// decides, for every inbound HTTP request, which tenant (if any) owns it
// and whether that tenant may be served.
//
// # Pipeline
//
// The middleware sequences four steps, each producing an explicit
// Decision value rather than raising:
//
//	classify -> resolve (cache-first) -> lifecycle gate -> privilege guard -> propagate
//
// Marketing and admin traffic is classified before any I/O and skips
// straight to propagation with empty tenant context, so platform pages
// incur zero resolution cost.
//
// # Failure policy
//
// Resolution failures fail closed: unknown hostnames, ambiguous claims
// and store outages all end at the not-found page. Failures outside
// resolution - a panicking pipeline step, a slow auth provider, a down
// distributed cache - degrade to serving the request without tenant
// context (or without a refreshed session), logged for operational
// visibility. The one exception is the privilege guard: an operator
// identity on a tenant host is always redirected to the admin entry
// point, regardless of any other degradation.
//
// # Usage
//
//	gw := gateway.New(cfg, resolver,
//		gateway.WithSessionVerifier(sessions),
//		gateway.WithLogger(log),
//	)
//	router.Use(gw.Middleware())
package gateway
