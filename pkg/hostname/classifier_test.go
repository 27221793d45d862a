package hostname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/platform/pkg/hostname"
)

func testClassifier() hostname.Classifier {
	return hostname.Classifier{
		RootDomain:      "shopfront.dev",
		MarketingHost:   "getshopfront.com",
		BrandToken:      "shopfront",
		AdminPathPrefix: "/admin",
	}
}

func TestClassifier(t *testing.T) {
	t.Parallel()

	t.Run("admin route on marketing host", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("www.shopfront.dev", "/admin/orders")
		assert.Equal(t, hostname.ClassAdmin, res.Class)
		assert.Equal(t, "www.shopfront.dev", res.Host)
	})

	t.Run("admin route on loopback", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("localhost:3000", "/admin")
		assert.Equal(t, hostname.ClassAdmin, res.Class)
		assert.Equal(t, "localhost", res.Host)
	})

	t.Run("admin prefix matches whole segments only", func(t *testing.T) {
		t.Parallel()

		c := testClassifier()

		res := c.Classify("www.shopfront.dev", "/administrator")
		assert.Equal(t, hostname.ClassMarketing, res.Class)

		res = c.Classify("www.shopfront.dev", "/admin")
		assert.Equal(t, hostname.ClassAdmin, res.Class)
	})

	t.Run("admin path on tenant host is not admin", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("acme.example.com", "/admin")
		assert.Equal(t, hostname.ClassTenant, res.Class)
	})

	t.Run("loopback without override is marketing", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("127.0.0.1:8080", "/")
		assert.Equal(t, hostname.ClassMarketing, res.Class)
	})

	t.Run("loopback with override is dev tenant", func(t *testing.T) {
		t.Parallel()

		c := testClassifier()
		c.DefaultTenant = "acme"

		res := c.Classify("localhost:3000", "/")
		assert.Equal(t, hostname.ClassDevTenant, res.Class)
		assert.Equal(t, "acme", res.Host)
	})

	t.Run("root domain variants are marketing", func(t *testing.T) {
		t.Parallel()

		c := testClassifier()
		for _, host := range []string{"shopfront.dev", "www.shopfront.dev", "marketing.shopfront.dev", "getshopfront.com"} {
			res := c.Classify(host, "/")
			assert.Equal(t, hostname.ClassMarketing, res.Class, "host %s", host)
		}
	})

	t.Run("brand token anywhere in host is marketing", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("try-shopfront.example.com", "/")
		assert.Equal(t, hostname.ClassMarketing, res.Class)
	})

	t.Run("everything else is a tenant candidate", func(t *testing.T) {
		t.Parallel()

		c := testClassifier()
		for _, host := range []string{"acme.platform.test", "store.acme.com", "acme.platform.test:8443"} {
			res := c.Classify(host, "/products")
			assert.Equal(t, hostname.ClassTenant, res.Class, "host %s", host)
		}
	})

	t.Run("strips port and lowercases", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("ACME.Platform.Test:8443", "/")
		assert.Equal(t, "acme.platform.test", res.Host)
	})

	t.Run("handles bracketed ipv6 loopback", func(t *testing.T) {
		t.Parallel()

		res := testClassifier().Classify("[::1]:8080", "/")
		assert.Equal(t, hostname.ClassMarketing, res.Class)
	})

	t.Run("classification is deterministic", func(t *testing.T) {
		t.Parallel()

		c := testClassifier()
		for _, host := range []string{"acme.platform.test", "www.shopfront.dev", "localhost", "ghost.example.org"} {
			first := c.Classify(host, "/checkout")
			second := c.Classify(host, "/checkout")
			assert.Equal(t, first, second, "host %s", host)
		}
	})
}
