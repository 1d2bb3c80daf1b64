package usecase

import (
	"context"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
)

// Profile returns the authenticated account without its password hash.
func (s *Usecase) Profile(ctx context.Context) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	acc, err := s.findAccount(ctx, clm.Identity, entity.ErrNotFound)
	if err != nil {
		return nil, err
	}

	acc.PasswordHash = ""
	return acc, nil
}
