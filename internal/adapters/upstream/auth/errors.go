package auth

import "errors"

// Sentinel kinds for credential errors.
var (
	// ErrTokenExchange is returned when generateToken fails or returns no token.
	ErrTokenExchange = errors.New("token exchange failed")
	// ErrUnauthorized marks a call that was still rejected after a forced refresh.
	ErrUnauthorized = errors.New("upstream rejected credentials")
)
