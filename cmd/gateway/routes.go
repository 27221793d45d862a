package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/platform/pkg/gateway"
	"github.com/shopfront/platform/pkg/tenant"
)

// mountRoutes wires the downstream handlers behind the gateway
// middleware: the gate-target pages, the admin entry point, and the
// storefront catch-all. Real page rendering, dashboard screens, and
// checkout live in separate services consuming the forwarded tenant
// attributes; these handlers are the routing layer's own surface.
func mountRoutes(r chi.Router, cfg gateway.Config) {
	r.Get(cfg.NotFoundPath, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "No storefront is configured for %q.\n", req.URL.Query().Get("hostname"))
	})
	r.Get(cfg.SuspendedPath, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprintln(w, "This storefront is currently suspended.")
	})
	r.Get(cfg.ExpiredPath, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprintln(w, "This storefront's subscription has expired.")
	})

	r.Get(cfg.AdminPathPrefix, adminEntry)
	r.Get(cfg.AdminPathPrefix+"/*", adminEntry)

	r.HandleFunc("/*", storefront)
}

// adminEntry stands in for the platform dashboard.
func adminEntry(w http.ResponseWriter, r *http.Request) {
	if reason := r.URL.Query().Get("error"); reason != "" {
		fmt.Fprintf(w, "Admin dashboard (%s: %s)\n", reason, r.URL.Query().Get("message"))
		return
	}
	fmt.Fprintln(w, "Admin dashboard")
}

// storefront serves tenant-scoped traffic; requests without tenant
// context fall through to the marketing site.
func storefront(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		fmt.Fprintln(w, "Welcome to Shopfront")
		return
	}
	fmt.Fprintf(w, "%s (%s)\n", t.Name, t.Subdomain)
}
