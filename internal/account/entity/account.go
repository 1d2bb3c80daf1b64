package entity

import (
	"strings"
	"time"
)

type Account struct {
	ID           int64
	Identity     string
	DisplayName  string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdentityKey is the normalized form used for uniqueness and lookups.
// Accounts keep the identity as submitted.
func IdentityKey(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// PendingVerification is returned by registration. It never carries the code.
type PendingVerification struct {
	AccountID int64
	Identity  string
	ExpiresAt time.Time
}

// Session is a signed, stateless access token for a verified account.
type Session struct {
	AccountID   int64
	Identity    string
	DisplayName string
	Token       string
	ExpiresAt   time.Time
}
