package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/shopfront/platform/pkg/identity"
)

// SessionVerifier is the routing layer's view of the auth provider.
// identity.Manager is the production implementation.
type SessionVerifier interface {
	// Verify returns the authenticated identity carried by the request,
	// identity.ErrNoSession when it carries none.
	Verify(ctx context.Context, r *http.Request) (*identity.Identity, error)

	// Refresh slides the session expiry forward when the token is close
	// to expiring, re-issuing the response cookie.
	Refresh(ctx context.Context, w http.ResponseWriter, id *identity.Identity) error
}

// guard enforces the operator boundary on tenant-scoped hosts: a
// platform-operator identity never receives tenant content and is sent
// to the admin entry point on the marketing domain instead. The check is
// fail-closed for operators and degrades to "unauthenticated" when the
// auth provider is slow or down, under a bounded timeout so it can never
// hang the request.
func (g *Gateway) guard(w http.ResponseWriter, r *http.Request) (Decision, bool) {
	if g.sessions == nil {
		return Decision{}, false
	}

	id := g.verifyBounded(w, r)
	if !id.IsOperator() {
		return Decision{}, false
	}

	q := url.Values{}
	q.Set("error", "access-denied")
	q.Set("message", "Platform operators cannot access tenant storefronts. Use the admin dashboard.")
	location := "https://" + g.cfg.marketingHost() + g.cfg.AdminPathPrefix + "?" + q.Encode()

	g.log.WarnContext(r.Context(), "operator blocked from tenant host",
		"host", r.Host, "user_id", id.UserID)

	return redirect(DecisionAccessDenied, location), true
}

// verifyBounded runs session verification under the configured timeout.
// Timeouts and verification errors degrade to an unauthenticated caller;
// a successful check also refreshes the session cookie (sliding expiry)
// on a best-effort basis.
func (g *Gateway) verifyBounded(w http.ResponseWriter, r *http.Request) *identity.Identity {
	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.SessionTimeout)
	defer cancel()

	type result struct {
		id  *identity.Identity
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- result{err: errPanic(rec)}
			}
		}()
		id, err := g.sessions.Verify(ctx, r)
		ch <- result{id: id, err: err}
	}()

	select {
	case <-ctx.Done():
		g.log.WarnContext(r.Context(), "session verification timed out, treating as unauthenticated",
			"host", r.Host)
		return nil
	case res := <-ch:
		if res.err != nil {
			if !errors.Is(res.err, identity.ErrNoSession) {
				g.log.DebugContext(r.Context(), "no verified session", "error", res.err)
			}
			return nil
		}
		if err := g.sessions.Refresh(ctx, w, res.id); err != nil {
			g.log.WarnContext(r.Context(), "session refresh failed", "error", err)
		}
		return res.id
	}
}
