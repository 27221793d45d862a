package gateway

import (
	"errors"
	"net/url"
	"time"

	"github.com/shopfront/platform/pkg/tenant"
)

// Diagnostic reasons carried to the not-found page.
const (
	reasonNotFound         = "tenant-not-found"
	reasonStoreUnavailable = "store-unavailable"
)

// gate applies the lifecycle decision table to a resolution result.
// Resolution failures fail closed: a store outage routes to the
// not-found page rather than serving unverified tenant state.
func (g *Gateway) gate(hostname string, t *tenant.Tenant, resolveErr error, now time.Time) Decision {
	switch {
	case errors.Is(resolveErr, tenant.ErrStoreUnavailable):
		return redirect(DecisionNotFound, g.notFoundLocation(hostname, reasonStoreUnavailable))
	case resolveErr != nil:
		return redirect(DecisionNotFound, g.notFoundLocation(hostname, reasonNotFound))
	case !t.IsActive():
		return redirect(DecisionSuspended, g.cfg.SuspendedPath)
	case t.IsExpired(now):
		return redirect(DecisionExpired, g.cfg.ExpiredPath)
	default:
		return proceed(t)
	}
}

// isGateTarget reports whether the path is one of the gate's own
// redirect targets. Such requests short-circuit past resolution so the
// target pages, themselves served from tenant-scoped routes, never cause
// an infinite redirect chain.
func (g *Gateway) isGateTarget(path string) bool {
	switch path {
	case g.cfg.NotFoundPath, g.cfg.SuspendedPath, g.cfg.ExpiredPath:
		return true
	}
	return false
}

func (g *Gateway) notFoundLocation(hostname, reason string) string {
	q := url.Values{}
	q.Set("reason", reason)
	q.Set("hostname", hostname)
	return g.cfg.NotFoundPath + "?" + q.Encode()
}
