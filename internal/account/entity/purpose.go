package entity

import "strings"

// Purpose scopes a challenge. Each (identity, purpose) pair has its own slot.
type Purpose int16

const (
	// PurposeUnknown is the zero value and never stored.
	PurposeUnknown Purpose = 0

	// PurposeRegister confirms control of the identity after registration.
	PurposeRegister Purpose = 1

	// PurposeReset authorizes a password reset.
	PurposeReset Purpose = 2

	// PurposeResetGrant is written by a successful RESET confirmation and lets
	// the same code set the password once until the RESET code would have
	// expired. Never issued or dispatched on its own.
	PurposeResetGrant Purpose = 3
)

func (p Purpose) String() string {
	switch p {
	case PurposeRegister:
		return "register"
	case PurposeReset:
		return "reset"
	case PurposeResetGrant:
		return "reset_grant"
	default:
		return "unknown"
	}
}

func (p Purpose) IsUnknown() bool {
	return p != PurposeRegister && p != PurposeReset
}

// ParsePurpose accepts the String form in any case. Anything else is PurposeUnknown.
func ParsePurpose(raw string) Purpose {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "register":
		return PurposeRegister
	case "reset":
		return PurposeReset
	default:
		return PurposeUnknown
	}
}
