package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
)

type LoginInput struct {
	Identity string `validate:"required,email"`
	Password string `validate:"required,max=72"`
}

// Login checks the password and returns a session for a verified account.
// The password is checked before verification state so an unverified
// account does not reveal itself to a wrong password.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*entity.Session, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Identity = normalizeIdentity(in.Identity)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.findAccount(ctx, in.Identity, entity.ErrNotFound)
	if err != nil {
		return nil, err
	}

	if !s.password.Verify(acc.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "login with wrong password", "account_id", acc.ID)
		return nil, entity.ErrWrongPassword
	}

	if !acc.Verified {
		return nil, entity.ErrNotVerified
	}

	tok, err := s.jwt.Generate(jwt.Subject{AccountID: acc.ID, Identity: acc.Identity})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.Session{
		AccountID:   acc.ID,
		Identity:    acc.Identity,
		DisplayName: acc.DisplayName,
		Token:       tok.Value,
		ExpiresAt:   tok.ExpiresAt,
	}, nil
}
