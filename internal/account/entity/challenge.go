package entity

import "time"

// Challenge is one OTP issuance for (Identity, Purpose).
//
// Code is set only on the value returned by the issuer, for dispatch.
// Stores persist CodeHash and return challenges with an empty Code.
type Challenge struct {
	ID         int64
	Identity   string
	Purpose    Purpose
	Code       string
	CodeHash   string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Consumed   bool
	ConsumedAt *time.Time
}

// Expired reports whether now is at or past ExpiresAt.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Dispatch is what a delivery transport needs to reach the account holder.
type Dispatch struct {
	Identity    string
	DisplayName string
	Purpose     Purpose
	Code        string
	ExpiresAt   time.Time
}
