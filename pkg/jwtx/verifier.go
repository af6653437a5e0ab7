package jwtx

import (
	"errors"
	"time"
)

// Verifier validates a JWT and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

type VerifyOptions struct {
	// Issuer the token must carry. Empty means "don't care".
	Issuer string

	// Audience values of which at least one must be present. Empty means
	// "don't care".
	Audience []string

	// Leeway tolerates clock skew on exp/nbf.
	Leeway time.Duration
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoSecret    = errors.New("jwtx: empty signing secret")
)
