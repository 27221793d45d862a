package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant claims a hostname.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrAmbiguousTenant is returned when more than one active tenant
	// claims the same hostname. This is a configuration error; callers
	// must fail safe and never pick a row arbitrarily.
	ErrAmbiguousTenant = errors.New("multiple active tenants claim hostname")

	// ErrStoreUnavailable is returned when the tenant store cannot be
	// reached. The routing layer treats it as not-found (fail closed).
	ErrStoreUnavailable = errors.New("tenant store unavailable")

	// ErrNoTenantInContext is the panic value of MustFromContext when a
	// handler requires a tenant but none was attached to the request
	// context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
