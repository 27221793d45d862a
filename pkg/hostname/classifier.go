package hostname

import (
	"net"
	"strings"
)

// Class is the routing classification of an inbound Host header.
type Class string

const (
	// ClassMarketing routes to the platform's own public site; no tenant
	// resolution is attempted.
	ClassMarketing Class = "marketing"
	// ClassAdmin routes to the platform dashboard; no tenant resolution
	// is attempted.
	ClassAdmin Class = "admin"
	// ClassDevTenant is a loopback host standing in for a configured
	// tenant during local development.
	ClassDevTenant Class = "dev-tenant"
	// ClassTenant is a candidate storefront hostname to resolve.
	ClassTenant Class = "tenant"
)

// Classifier maps a request's Host header and path to a routing class.
// It is a pure function over its configuration: no I/O, deterministic,
// safe to run before anything else so marketing and admin traffic incur
// zero resolution cost.
type Classifier struct {
	// RootDomain is the platform's bare root domain, e.g. "shopfront.dev".
	RootDomain string
	// MarketingHost is an explicitly configured marketing hostname, e.g.
	// a vanity domain distinct from the root.
	MarketingHost string
	// BrandToken marks marketing traffic: any host containing it is the
	// platform's own.
	BrandToken string
	// DefaultTenant, when non-empty, makes loopback hosts resolve as that
	// tenant for local development.
	DefaultTenant string
	// AdminPathPrefix is the dashboard route prefix, e.g. "/admin".
	AdminPathPrefix string
}

// Result carries the classification and the effective hostname: the Host
// header stripped of its port, lowercased, and - for dev-tenant traffic -
// replaced by the configured default tenant.
type Result struct {
	Class Class
	Host  string
}

// Classify applies the classification rules in order, first match wins.
func (c Classifier) Classify(host, path string) Result {
	clean := stripPort(strings.ToLower(strings.TrimSpace(host)))
	loopback := isLoopback(clean)

	if c.AdminPathPrefix != "" && pathHasPrefix(path, c.AdminPathPrefix) &&
		(loopback || c.isMarketingHost(clean)) {
		return Result{Class: ClassAdmin, Host: clean}
	}

	if loopback {
		if c.DefaultTenant != "" {
			return Result{Class: ClassDevTenant, Host: strings.ToLower(c.DefaultTenant)}
		}
		return Result{Class: ClassMarketing, Host: clean}
	}

	if c.isMarketingHost(clean) {
		return Result{Class: ClassMarketing, Host: clean}
	}

	return Result{Class: ClassTenant, Host: clean}
}

func (c Classifier) isMarketingHost(host string) bool {
	if host == "" {
		return false
	}
	if c.RootDomain != "" {
		switch host {
		case c.RootDomain, "www." + c.RootDomain, "marketing." + c.RootDomain:
			return true
		}
	}
	if c.BrandToken != "" && strings.Contains(host, c.BrandToken) {
		return true
	}
	return c.MarketingHost != "" && host == c.MarketingHost
}

// pathHasPrefix matches on whole path segments: a prefix of "/admin"
// covers "/admin" and "/admin/users" but not "/administrator".
func pathHasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// stripPort removes a trailing port from a Host header value, handling
// bracketed IPv6 literals.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}

func isLoopback(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
