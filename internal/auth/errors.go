package auth

import "errors"

var (
	// ErrEmptyToken indicates the request carried no bearer token.
	ErrEmptyToken = errors.New("auth: empty token")
	// ErrEmptySecret indicates the middleware has no signing secret configured.
	ErrEmptySecret = errors.New("auth: empty secret")
	// ErrInvalidToken indicates a token that failed signature or claim checks.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrInvalidRole indicates a token whose role is unknown.
	ErrInvalidRole = errors.New("auth: invalid role")
	// ErrSiteForbidden indicates the caller is not scoped to the requested site.
	ErrSiteForbidden = errors.New("auth: site not permitted")
)
