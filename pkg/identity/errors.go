package identity

import "errors"

var (
	// ErrNoSession is returned when the request carries no session token.
	ErrNoSession = errors.New("no session token in request")

	// ErrInvalidToken is returned when the session token fails
	// verification or has expired.
	ErrInvalidToken = errors.New("invalid or expired session token")
)
