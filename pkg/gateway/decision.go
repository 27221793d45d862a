package gateway

import "github.com/shopfront/platform/pkg/tenant"

// DecisionKind names the routing outcome of a request. Outcomes travel
// through the pipeline as explicit values rather than suppressed
// exceptions, so failure handling is visible in signatures.
type DecisionKind string

const (
	DecisionProceed      DecisionKind = "proceed"
	DecisionNotFound     DecisionKind = "redirect-not-found"
	DecisionSuspended    DecisionKind = "redirect-suspended"
	DecisionExpired      DecisionKind = "redirect-expired"
	DecisionAccessDenied DecisionKind = "redirect-access-denied"
)

// Decision is the routing outcome for one request: either proceed with
// an optional tenant snapshot attached, or redirect to Location.
type Decision struct {
	Kind     DecisionKind
	Location string
	Tenant   *tenant.Tenant
}

// IsRedirect reports whether the decision terminates the pipeline with a
// redirect response.
func (d Decision) IsRedirect() bool {
	return d.Kind != DecisionProceed
}

func proceed(t *tenant.Tenant) Decision {
	return Decision{Kind: DecisionProceed, Tenant: t}
}

func redirect(kind DecisionKind, location string) Decision {
	return Decision{Kind: kind, Location: location}
}
