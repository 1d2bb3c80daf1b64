package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes")
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("jwt: token has expired")
	// ErrInvalidToken is returned for any other verification failure.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// JWT issues and verifies session tokens.
type JWT interface {
	Generate(sub Subject) (Token, error)
	Verify(raw string) (Claims, error)
}

// Subject is the account a token is issued for.
type Subject struct {
	AccountID int64
	Identity  string
}

// Token is a signed token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims are the registered claims plus the account fields.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"account_id,string"`
	Identity  string `json:"identity"`
}

type clocker interface {
	Now() time.Time
}

type idGenerator interface {
	Generate() string
}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	ID        idGenerator
}

type authKey struct{}

// SetAuth stores verified claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}

// GetAuth returns the claims stored by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}
