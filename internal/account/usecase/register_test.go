package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Register(t *testing.T) {
	t.Run("creates unverified account and dispatches register code", func(t *testing.T) {
		// Arrange
		h := newHarness(t)

		// Act
		out, err := h.uc.Register(context.Background(), RegisterInput{
			Identity: " a@x.com ", DisplayName: " Alice ", Password: "P@ssw0rd!", PasswordConfirmation: "P@ssw0rd!",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", out.Identity)
		assert.NotZero(t, out.AccountID)
		assert.Equal(t, epoch.Add(DefaultOTPTTL), out.ExpiresAt)

		acc, err := h.store.FindAccount(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.False(t, acc.Verified)
		assert.Equal(t, "Alice", acc.DisplayName)
		assert.Len(t, acc.PasswordHash, 64)
		assert.NotContains(t, acc.PasswordHash, "P@ssw0rd!")

		require.Len(t, h.transport.sent, 1)
		d := h.transport.sent[0]
		assert.Equal(t, entity.PurposeRegister, d.Purpose)
		assert.Equal(t, "Alice", d.DisplayName)
		assert.Regexp(t, `^[0-9]{6}$`, d.Code)
	})

	t.Run("duplicate identity is case-insensitive", func(t *testing.T) {
		h := newHarness(t)
		h.register(t)

		_, err := h.uc.Register(context.Background(), RegisterInput{
			Identity: "A@X.COM", DisplayName: "Other", Password: "P@ssw0rd!", PasswordConfirmation: "P@ssw0rd!",
		})

		require.ErrorIs(t, err, entity.ErrDuplicateIdentity)
		assert.Len(t, h.transport.sent, 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.Register(context.Background(), RegisterInput{Identity: "nope", DisplayName: "A1", Password: "short"})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.TypeValidation, gerr.Type())
	})

	t.Run("password confirmation mismatch creates nothing", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.Register(context.Background(), RegisterInput{
			Identity: "a@x.com", DisplayName: "Alice", Password: "P@ssw0rd!", PasswordConfirmation: "P@ssw0rd?",
		})

		require.ErrorIs(t, err, entity.ErrPasswordConfirmation)
		_, err = h.store.FindAccount(context.Background(), "a@x.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)
		assert.Empty(t, h.transport.sent)
	})

	t.Run("delivery failure keeps account and challenge", func(t *testing.T) {
		h := newHarness(t)
		h.transport.err = errors.New("smtp down")

		_, err := h.uc.Register(context.Background(), RegisterInput{
			Identity: "a@x.com", DisplayName: "Alice", Password: "P@ssw0rd!", PasswordConfirmation: "P@ssw0rd!",
		})

		require.ErrorIs(t, err, entity.ErrDelivery)
		_, err = h.store.FindAccount(context.Background(), "a@x.com")
		require.NoError(t, err)
		_, err = h.store.TakeChallenge(context.Background(), "a@x.com", entity.PurposeRegister)
		require.NoError(t, err)
	})
}
