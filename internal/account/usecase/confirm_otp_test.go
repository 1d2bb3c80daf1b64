package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_ConfirmOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("register code verifies account once", func(t *testing.T) {
		h := newHarness(t)
		code := h.register(t)
		in := ConfirmOTPInput{Identity: "A@X.com", Purpose: "register", Code: code}

		require.NoError(t, h.uc.ConfirmOTP(ctx, in))

		acc, err := h.store.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, acc.Verified)

		require.ErrorIs(t, h.uc.ConfirmOTP(ctx, in), entity.ErrAlreadyConsumed)
	})

	t.Run("no challenge", func(t *testing.T) {
		h := newHarness(t)
		h.register(t)

		err := h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "reset", Code: "123456"})

		require.ErrorIs(t, err, entity.ErrNoChallenge)
	})

	t.Run("expires exactly at ttl", func(t *testing.T) {
		h := newHarness(t)
		code := h.register(t)

		h.clock.Advance(300 * time.Second)
		err := h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: code})

		require.ErrorIs(t, err, entity.ErrExpired)
		acc, err := h.store.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.False(t, acc.Verified)
	})

	t.Run("valid one second before expiry", func(t *testing.T) {
		h := newHarness(t)
		code := h.register(t)

		h.clock.Advance(299 * time.Second)

		require.NoError(t, h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: code}))
	})

	t.Run("consumed is reported before expired", func(t *testing.T) {
		h := newHarness(t)
		code := h.register(t)
		in := ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: code}
		require.NoError(t, h.uc.ConfirmOTP(ctx, in))

		h.clock.Advance(time.Hour)

		require.ErrorIs(t, h.uc.ConfirmOTP(ctx, in), entity.ErrAlreadyConsumed)
	})

	t.Run("wrong code is a mismatch and leaves the code usable", func(t *testing.T) {
		h := newHarness(t, withGenerator(&seqGenerator{codes: []string{"000042"}}))
		h.register(t)

		err := h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: "000043"})
		require.ErrorIs(t, err, entity.ErrMismatch)

		require.NoError(t, h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: "000042"}))
	})

	t.Run("malformed code is invalid input", func(t *testing.T) {
		h := newHarness(t)
		h.register(t)

		err := h.uc.ConfirmOTP(ctx, ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: "12a456"})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeInvalidInput, gerr.Code())
	})

	t.Run("reset code confirmation does not verify", func(t *testing.T) {
		h := newHarness(t)
		h.register(t)
		_, err := h.uc.SendOTP(ctx, SendOTPInput{Identity: "a@x.com", Purpose: "reset"})
		require.NoError(t, err)

		require.NoError(t, h.uc.ConfirmOTP(ctx, ConfirmOTPInput{
			Identity: "a@x.com", Purpose: "reset", Code: h.transport.last(t, entity.PurposeReset),
		}))

		acc, err := h.store.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.False(t, acc.Verified)
	})
}

func TestUsecase_ConfirmOTP_ConcurrentSucceedsOnce(t *testing.T) {
	h := newHarness(t)
	code := h.register(t)
	in := ConfirmOTPInput{Identity: "a@x.com", Purpose: "register", Code: code}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		consumed int
	)
	for range 32 {
		wg.Go(func() {
			err := h.uc.ConfirmOTP(context.Background(), in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, entity.ErrAlreadyConsumed):
				consumed++
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 31, consumed)
}

// racingStore loses every compare-and-set and lets the test decide what the
// slot looks like on re-read.
type racingStore struct {
	*fakeChallenges
	after *entity.Challenge
}

type fakeChallenges struct {
	current *entity.Challenge
}

func (f *fakeChallenges) PutChallenge(_ context.Context, ch entity.Challenge) error {
	f.current = &ch
	return nil
}

func (f *fakeChallenges) TakeChallenge(context.Context, string, entity.Purpose) (*entity.Challenge, error) {
	if f.current == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *f.current
	return &cp, nil
}

func (r *racingStore) MarkChallengeConsumed(context.Context, string, entity.Purpose, int64) (bool, error) {
	r.current = r.after
	return false, nil
}

func TestOTPValidator_LostRace(t *testing.T) {
	h := newHarness(t)
	digest, err := h.uc.otp.digest.Hash("123456")
	require.NoError(t, err)

	open := entity.Challenge{ID: 1, Purpose: entity.PurposeRegister, CodeHash: string(digest), ExpiresAt: epoch.Add(time.Minute)}
	consumed := open
	consumed.Consumed = true
	superseded := entity.Challenge{ID: 2, Purpose: entity.PurposeRegister, CodeHash: "other", ExpiresAt: epoch.Add(time.Minute)}

	tests := []struct {
		name  string
		after entity.Challenge
		want  error
	}{
		{"consumed concurrently", consumed, entity.ErrAlreadyConsumed},
		{"superseded concurrently", superseded, entity.ErrMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := open
			store := &racingStore{fakeChallenges: &fakeChallenges{current: &start}, after: &tt.after}
			v := NewOTPValidator(store, h.uc.otp.digest, h.clock, h.uc.ins)

			err := v.Validate(context.Background(), "a@x.com", entity.PurposeRegister, "123456")

			require.ErrorIs(t, err, tt.want)
		})
	}
}
