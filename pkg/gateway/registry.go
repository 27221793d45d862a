package gateway

import (
	"net/http"

	"github.com/shopfront/platform/pkg/hostname"
)

// ClassHandler processes one routing classification. The registry keyed
// by class keeps dispatch additive: a new classification is a new entry,
// not a new branch.
type ClassHandler func(g *Gateway, w http.ResponseWriter, r *http.Request, next http.Handler, res hostname.Result)

func defaultRegistry() map[hostname.Class]ClassHandler {
	return map[hostname.Class]ClassHandler{
		hostname.ClassMarketing: passthrough,
		hostname.ClassAdmin:     passthrough,
		hostname.ClassTenant:    serveTenant,
		hostname.ClassDevTenant: serveTenant,
	}
}

// passthrough serves platform-owned traffic: no resolution, no cache or
// store cost, empty tenant context.
func passthrough(g *Gateway, w http.ResponseWriter, r *http.Request, next http.Handler, res hostname.Result) {
	next.ServeHTTP(w, g.propagate(w, r, nil))
}

// serveTenant runs the full pipeline for tenant-candidate hosts:
// resolve, lifecycle gate, privilege guard, propagate.
func serveTenant(g *Gateway, w http.ResponseWriter, r *http.Request, next http.Handler, res hostname.Result) {
	// The gate's own target pages are served from tenant-scoped routes;
	// short-circuit without re-resolving to prevent redirect loops.
	if g.isGateTarget(r.URL.Path) {
		next.ServeHTTP(w, g.propagate(w, r, nil))
		return
	}

	decision := g.resolveAndGate(r, res.Host)

	if decision.Kind == DecisionProceed && decision.Tenant != nil {
		if denied, blocked := g.guard(w, r); blocked {
			decision = denied
		}
	}

	if decision.IsRedirect() {
		http.Redirect(w, r, decision.Location, http.StatusFound)
		return
	}

	next.ServeHTTP(w, g.propagate(w, r, decision.Tenant))
}
