package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Profile(t *testing.T) {
	h := newHarness(t)
	h.verified(t)

	_, err := h.uc.Profile(context.Background())
	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())

	sess, err := h.uc.Login(context.Background(), LoginInput{Identity: "a@x.com", Password: "P@ssw0rd!"})
	require.NoError(t, err)
	claims, err := h.jwt.Verify(sess.Token)
	require.NoError(t, err)

	acc, err := h.uc.Profile(jwt.SetAuth(context.Background(), claims))
	require.NoError(t, err)
	assert.Equal(t, "Alice", acc.DisplayName)
	assert.True(t, acc.Verified)
	assert.Empty(t, acc.PasswordHash)

	_, err = h.uc.Profile(jwt.SetAuth(context.Background(), jwt.Claims{Identity: "ghost@x.com"}))
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestUsecase_Health(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.uc.Health(context.Background()))
}
