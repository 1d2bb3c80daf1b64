package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

type RegisterInput struct {
	Identity             string `validate:"required,email"`
	DisplayName          string `validate:"required,max=100,alphaspace"`
	Password             string `validate:"required,password"`
	PasswordConfirmation string `validate:"required"`
}

// Register creates an unverified account and sends it a REGISTER code.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*entity.PendingVerification, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Identity = normalizeIdentity(in.Identity)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Password != in.PasswordConfirmation {
		return nil, entity.ErrPasswordConfirmation
	}

	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	acc := entity.Account{
		ID:           s.uid.Generate(),
		Identity:     in.Identity,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.CreateAccount(ctx, acc)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, entity.ErrDuplicateIdentity
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "identity", in.Identity, "error", err)
		return nil, goerror.NewServer(err)
	}

	ch, err := s.issueAndDispatch(ctx, &acc, entity.PurposeRegister)
	if err != nil {
		return nil, err
	}

	return &entity.PendingVerification{
		AccountID: acc.ID,
		Identity:  acc.Identity,
		ExpiresAt: ch.ExpiresAt,
	}, nil
}
