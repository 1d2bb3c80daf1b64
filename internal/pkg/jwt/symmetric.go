package jwt

import (
	"errors"
	"strconv"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies HS512 tokens with a shared secret.
type Symmetric struct {
	cfg Config
}

// NewHS512 returns a Symmetric signer. The secret must be at least 64 bytes.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	return &Symmetric{cfg: cfg}, nil
}

// Generate signs a token for sub valid for the configured TTL.
func (s *Symmetric) Generate(sub Subject) (Token, error) {
	now := s.cfg.Clock.Now()
	exp := now.Add(s.cfg.TTL)

	signed, err := libJWT.NewWithClaims(libJWT.SigningMethodHS512, Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.ID.Generate(),
			Subject:   strconv.FormatInt(sub.AccountID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(exp),
		},
		AccountID: sub.AccountID,
		Identity:  sub.Identity,
	}).SignedString(s.cfg.Secret)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Verify parses raw, checks signature, issuer, audience and expiry against
// the configured clock, and returns its claims.
func (s *Symmetric) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(raw, &claims,
		func(*libJWT.Token) (any, error) { return s.cfg.Secret, nil },
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuer(s.cfg.Issuer),
		libJWT.WithAudience(s.cfg.Audiences...),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.cfg.Clock.Now),
	)
	switch {
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil, !token.Valid:
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	return claims, nil
}
