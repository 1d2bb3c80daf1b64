package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

type ResetPasswordInput struct {
	Identity             string `validate:"required,email"`
	Code                 string `validate:"required,otpcode"`
	NewPassword          string `validate:"required,password"`
	PasswordConfirmation string `validate:"required"`
}

// passwordResetter is implemented by stores that can consume a challenge
// and replace the password in one step.
type passwordResetter interface {
	ConsumeChallengeSetPassword(ctx context.Context, identity string, p entity.Purpose, challengeID int64, hash string) (bool, error)
}

// ResetPassword replaces the password with a RESET code. The code is either
// presented fresh or was already confirmed through ConfirmOTP. The new
// password is hashed before the code is consumed.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	in.Identity = normalizeIdentity(in.Identity)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	if in.NewPassword != in.PasswordConfirmation {
		return entity.ErrPasswordConfirmation
	}

	purpose, ch, err := s.resetChallenge(ctx, in.Identity, in.Code)
	if err != nil {
		return err
	}

	hashed, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	return s.consumeAndSetPassword(ctx, in.Identity, purpose, ch, string(hashed))
}

// resetChallenge picks the slot that authorizes the reset: the RESET code
// itself, or the grant left by its confirmation once the code is consumed.
func (s *Usecase) resetChallenge(ctx context.Context, identity, code string) (entity.Purpose, *entity.Challenge, error) {
	ch, err := s.otp.Check(ctx, identity, entity.PurposeReset, code)
	if !errors.Is(err, entity.ErrAlreadyConsumed) {
		return entity.PurposeReset, ch, err
	}

	reset, err := s.otp.take(ctx, identity, entity.PurposeReset)
	if err != nil {
		return entity.PurposeUnknown, nil, err
	}

	grant, err := s.otp.Check(ctx, identity, entity.PurposeResetGrant, code)
	switch {
	case errors.Is(err, entity.ErrNoChallenge):
		return entity.PurposeUnknown, nil, entity.ErrAlreadyConsumed
	case err != nil:
		return entity.PurposeUnknown, nil, err
	case grant.ID != reset.ID:
		// grant of an older, superseded code
		return entity.PurposeUnknown, nil, entity.ErrAlreadyConsumed
	}

	return entity.PurposeResetGrant, grant, nil
}

func (s *Usecase) consumeAndSetPassword(ctx context.Context, identity string, p entity.Purpose, ch *entity.Challenge, hashed string) error {
	var (
		ok  bool
		err error
	)
	if r, atomic := s.store.(passwordResetter); atomic {
		ok, err = r.ConsumeChallengeSetPassword(ctx, identity, p, ch.ID, hashed)
	} else {
		// Split stores cannot undo the consume if SetPassword fails.
		ok, err = s.store.MarkChallengeConsumed(ctx, identity, p, ch.ID)
		if err == nil && ok {
			err = s.store.SetPassword(ctx, identity, hashed)
		}
	}

	switch {
	case errors.Is(err, goerror.ErrNotFound):
		return entity.ErrUnknownIdentity
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo reset password", "identity", identity, "challenge_id", ch.ID, "error", err)
		return goerror.NewServer(err)
	case !ok:
		return s.otp.Lost(ctx, identity, p, ch)
	}

	return nil
}
