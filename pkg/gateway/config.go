package gateway

import "time"

// Config holds routing-layer settings, populated from the environment.
type Config struct {
	RootDomain      string        `env:"GATEWAY_ROOT_DOMAIN,required"`                            // RootDomain is the platform's bare root domain, e.g. "shopfront.dev".
	MarketingHost   string        `env:"GATEWAY_MARKETING_HOST"`                                  // MarketingHost is an extra hostname serving the marketing site.
	BrandToken      string        `env:"GATEWAY_BRAND_TOKEN"`                                     // BrandToken marks marketing traffic: any host containing it is the platform's own.
	DefaultTenant   string        `env:"GATEWAY_DEFAULT_TENANT"`                                  // DefaultTenant makes loopback hosts resolve as this tenant during local development.
	AdminPathPrefix string        `env:"GATEWAY_ADMIN_PATH_PREFIX" envDefault:"/admin"`           // AdminPathPrefix is the dashboard route prefix.
	NotFoundPath    string        `env:"GATEWAY_NOT_FOUND_PATH" envDefault:"/site-not-found"`     // NotFoundPath serves the unknown-storefront page.
	SuspendedPath   string        `env:"GATEWAY_SUSPENDED_PATH" envDefault:"/suspended"`          // SuspendedPath serves the suspended-storefront page.
	ExpiredPath     string        `env:"GATEWAY_EXPIRED_PATH" envDefault:"/expired"`              // ExpiredPath serves the expired-storefront page.
	SessionTimeout  time.Duration `env:"GATEWAY_SESSION_VERIFY_TIMEOUT" envDefault:"250ms"`       // SessionTimeout bounds the privilege guard's session check.
}

// marketingHost is where the privilege guard sends operators: the
// explicit marketing hostname when configured, the www root otherwise.
func (c Config) marketingHost() string {
	if c.MarketingHost != "" {
		return c.MarketingHost
	}
	return "www." + c.RootDomain
}
