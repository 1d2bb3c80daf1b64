package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Login(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, h *harness)
		input   LoginInput
		wantErr error
	}{
		{
			name:    "unknown identity",
			input:   LoginInput{Identity: "ghost@x.com", Password: "P@ssw0rd!"},
			wantErr: entity.ErrNotFound,
		},
		{
			name:    "wrong password",
			setup:   func(t *testing.T, h *harness) { h.verified(t) },
			input:   LoginInput{Identity: "a@x.com", Password: "nope-nope"},
			wantErr: entity.ErrWrongPassword,
		},
		{
			name:    "not verified",
			setup:   func(t *testing.T, h *harness) { h.register(t) },
			input:   LoginInput{Identity: "a@x.com", Password: "P@ssw0rd!"},
			wantErr: entity.ErrNotVerified,
		},
		{
			name:  "verified",
			setup: func(t *testing.T, h *harness) { h.verified(t) },
			input: LoginInput{Identity: "A@X.COM", Password: "P@ssw0rd!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(t, h)
			}

			sess, err := h.uc.Login(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Alice", sess.DisplayName)
			assert.Equal(t, "a@x.com", sess.Identity)

			claims, err := h.jwt.Verify(sess.Token)
			require.NoError(t, err)
			assert.Equal(t, sess.AccountID, claims.AccountID)
		})
	}
}

// Full register scenario: register, resend, confirm, login.
func TestUsecase_RegisterScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.Register(ctx, RegisterInput{Identity: "a@x.com", DisplayName: "Alice", Password: "P@ssw0rd!", PasswordConfirmation: "P@ssw0rd!"})
	require.NoError(t, err)

	_, err = h.uc.SendOTP(ctx, SendOTPInput{Identity: "a@x.com", Purpose: "register"})
	require.NoError(t, err)
	code := h.transport.last(t, entity.PurposeRegister)

	require.NoError(t, h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: code}))

	_, err = h.uc.Login(ctx, LoginInput{Identity: "a@x.com", Password: "P@ssw0rd!"})
	require.NoError(t, err)
}
