package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

type SendOTPInput struct {
	Identity string `validate:"required,email"`
	Purpose  string `validate:"required,oneof=register reset"`
}

// SendOTP issues a fresh code for purpose, replacing any earlier one, and
// dispatches it. Verified accounts cannot be sent another REGISTER code.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*entity.PendingVerification, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Identity = normalizeIdentity(in.Identity)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	purpose := entity.ParsePurpose(in.Purpose)

	acc, err := s.findAccount(ctx, in.Identity, entity.ErrUnknownIdentity)
	if err != nil {
		return nil, err
	}

	if purpose == entity.PurposeRegister && acc.Verified {
		return nil, entity.ErrAlreadyVerified
	}

	ch, err := s.issueAndDispatch(ctx, acc, purpose)
	if err != nil {
		return nil, err
	}

	return &entity.PendingVerification{AccountID: acc.ID, Identity: acc.Identity, ExpiresAt: ch.ExpiresAt}, nil
}

// findAccount maps a missing account to notFound.
func (s *Usecase) findAccount(ctx context.Context, identity string, notFound error) (*entity.Account, error) {
	acc, err := s.store.FindAccount(ctx, identity)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account", "identity", identity, "error", err)
		return nil, goerror.NewServer(err)
	}
	return acc, nil
}
