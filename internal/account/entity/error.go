package entity

import "github.com/shandysiswandi/bazaar/internal/pkg/goerror"

var (
	ErrDuplicateIdentity = goerror.NewBusiness("identity already registered", goerror.CodeConflict)
	ErrNotFound          = goerror.NewBusiness("account not found", goerror.CodeNotFound)
	ErrUnknownIdentity   = goerror.NewBusiness("identity is not registered", goerror.CodeNotFound)
	ErrWrongPassword     = goerror.NewBusiness("wrong password", goerror.CodeUnauthorized)
	ErrNotVerified       = goerror.NewBusiness("account not verified", goerror.CodeForbidden)
	ErrAlreadyVerified   = goerror.NewBusiness("account already verified", goerror.CodeConflict)

	ErrNoChallenge     = goerror.NewBusiness("no code was issued", goerror.CodeUnprocessable)
	ErrAlreadyConsumed = goerror.NewBusiness("code already used", goerror.CodeConflict)
	ErrExpired         = goerror.NewBusiness("code expired", goerror.CodeGone)
	ErrMismatch        = goerror.NewBusiness("code does not match", goerror.CodeUnprocessable)

	// ErrDelivery wraps the transport failure with Wrap. The issued code stays valid.
	ErrDelivery = goerror.NewUnavailable("failed to deliver code")

	ErrPasswordConfirmation = goerror.NewValidation("password confirmation does not match",
		"password_confirmation", "password_confirmation must match the password")
)
