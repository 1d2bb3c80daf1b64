package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

type ConfirmOTPInput struct {
	Identity string `validate:"required,email"`
	Purpose  string `validate:"required,oneof=register reset"`
	Code     string `validate:"required,otpcode"`
}

// ConfirmOTP consumes the code. A REGISTER confirmation marks the account
// verified. A RESET confirmation leaves a grant so ResetPassword accepts the
// same code once more, until the code's original expiry.
func (s *Usecase) ConfirmOTP(ctx context.Context, in ConfirmOTPInput) error {
	ctx, span := s.startSpan(ctx, "ConfirmOTP")
	defer span.End()

	in.Identity = normalizeIdentity(in.Identity)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	purpose := entity.ParsePurpose(in.Purpose)

	ch, err := s.otp.ValidateChallenge(ctx, in.Identity, purpose, in.Code)
	if err != nil {
		return err
	}

	if purpose == entity.PurposeReset {
		return s.issuer.Grant(ctx, ch)
	}

	err = s.store.SetVerified(ctx, in.Identity)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.ErrUnknownIdentity
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo set verified", "identity", in.Identity, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
