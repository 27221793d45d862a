package gateway

import (
	"net/http"

	"github.com/shopfront/platform/pkg/tenant"
)

// Forwarded request attributes. These are the wire contract between the
// routing layer and downstream handler processes; in-process handlers
// read the typed context value instead.
const (
	HeaderTenantID        = "X-Tenant-Id"
	HeaderTenantSubdomain = "X-Tenant-Subdomain"
	HeaderTenantName      = "X-Tenant-Name"
	HeaderPathname        = "X-Pathname"
)

// propagate attaches the resolved identity to the forwarded request and
// mirrors it on the response, then returns the request with the typed
// context value attached. This is the single choke point: no downstream
// handler re-derives tenant identity from the raw hostname.
func (g *Gateway) propagate(w http.ResponseWriter, r *http.Request, t *tenant.Tenant) *http.Request {
	set := func(key, value string) {
		r.Header.Set(key, value)
		w.Header().Set(key, value)
	}

	set(HeaderPathname, r.URL.Path)

	if t == nil {
		// Marketing and admin traffic carries empty tenant context; stale
		// client-supplied tenant headers must not leak downstream.
		r.Header.Del(HeaderTenantID)
		r.Header.Del(HeaderTenantSubdomain)
		r.Header.Del(HeaderTenantName)
		return r
	}

	set(HeaderTenantID, t.ID.String())
	set(HeaderTenantSubdomain, t.Subdomain)
	set(HeaderTenantName, t.Name)

	return r.WithContext(tenant.WithTenant(r.Context(), t))
}
