package jwtx

import "github.com/golang-jwt/jwt/v5"

// HS256Signer mints tokens with a shared secret. Production tokens are signed
// by the identity provider; this exists for local tooling and tests that need
// tokens the verifier accepts.
type HS256Signer struct {
	secret []byte
}

func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}
