// Package storetest holds behaviour tests shared by every credential store
// adapter.
package storetest

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

// AccountStore is the account half of the credential store.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc entity.Account) error
	FindAccount(ctx context.Context, identity string) (*entity.Account, error)
	SetPassword(ctx context.Context, identity, hash string) error
	SetVerified(ctx context.Context, identity string) error
}

// ChallengeStore is the challenge half of the credential store.
type ChallengeStore interface {
	PutChallenge(ctx context.Context, ch entity.Challenge) error
	TakeChallenge(ctx context.Context, identity string, p entity.Purpose) (*entity.Challenge, error)
	MarkChallengeConsumed(ctx context.Context, identity string, p entity.Purpose, challengeID int64) (bool, error)
}

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// RunAccounts checks the account half. newStore must return an empty store.
func RunAccounts(t *testing.T, newStore func(t *testing.T) AccountStore) {
	t.Helper()

	t.Run("create and find case-insensitively", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateAccount(ctx, entity.Account{
			ID: 1, Identity: "Alice@Example.com", DisplayName: "Alice", PasswordHash: "h1",
			CreatedAt: base, UpdatedAt: base,
		}))

		got, err := s.FindAccount(ctx, "  alice@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "Alice@Example.com", got.Identity)
		assert.Equal(t, "h1", got.PasswordHash)
		assert.False(t, got.Verified)
	})

	t.Run("duplicate identity conflicts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateAccount(ctx, entity.Account{ID: 1, Identity: "a@x.com", PasswordHash: "h", CreatedAt: base, UpdatedAt: base}))
		err := s.CreateAccount(ctx, entity.Account{ID: 2, Identity: "A@X.COM", PasswordHash: "h", CreatedAt: base, UpdatedAt: base})
		require.ErrorIs(t, err, goerror.ErrConflict)
	})

	t.Run("missing account", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.FindAccount(ctx, "nobody@x.com")
		require.ErrorIs(t, err, goerror.ErrNotFound)
		require.ErrorIs(t, s.SetPassword(ctx, "nobody@x.com", "h"), goerror.ErrNotFound)
		require.ErrorIs(t, s.SetVerified(ctx, "nobody@x.com"), goerror.ErrNotFound)
	})

	t.Run("set verified is idempotent and set password replaces hash", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateAccount(ctx, entity.Account{ID: 1, Identity: "a@x.com", PasswordHash: "old", CreatedAt: base, UpdatedAt: base}))
		require.NoError(t, s.SetVerified(ctx, "A@x.com"))
		require.NoError(t, s.SetVerified(ctx, "a@x.com"))
		require.NoError(t, s.SetPassword(ctx, "a@X.com", "new"))

		got, err := s.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, got.Verified)
		assert.Equal(t, "new", got.PasswordHash)
	})
}

// RunChallenges checks the challenge half. newStore must return an empty store.
func RunChallenges(t *testing.T, newStore func(t *testing.T) ChallengeStore) {
	t.Helper()

	challenge := func(id int64, identity string, p entity.Purpose) entity.Challenge {
		return entity.Challenge{
			ID: id, Identity: identity, Purpose: p, CodeHash: "digest", Code: "123456",
			IssuedAt: base, ExpiresAt: base.Add(5 * time.Minute),
		}
	}

	t.Run("empty slot", func(t *testing.T) {
		s := newStore(t)
		_, err := s.TakeChallenge(context.Background(), "a@x.com", entity.PurposeRegister)
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("put and take without plaintext code", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.PutChallenge(ctx, challenge(10, "a@x.com", entity.PurposeRegister)))

		got, err := s.TakeChallenge(ctx, "A@X.com", entity.PurposeRegister)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.ID)
		assert.Equal(t, "digest", got.CodeHash)
		assert.Empty(t, got.Code)
		assert.True(t, base.Add(5*time.Minute).Equal(got.ExpiresAt))
		assert.False(t, got.Consumed)

		// take does not remove
		_, err = s.TakeChallenge(ctx, "a@x.com", entity.PurposeRegister)
		require.NoError(t, err)
	})

	t.Run("purposes are independent slots", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.PutChallenge(ctx, challenge(10, "a@x.com", entity.PurposeRegister)))
		require.NoError(t, s.PutChallenge(ctx, challenge(11, "a@x.com", entity.PurposeReset)))

		reg, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeRegister)
		require.NoError(t, err)
		rst, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeReset)
		require.NoError(t, err)
		assert.Equal(t, int64(10), reg.ID)
		assert.Equal(t, int64(11), rst.ID)
	})

	t.Run("put overwrites and resets consumption", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.PutChallenge(ctx, challenge(10, "a@x.com", entity.PurposeReset)))
		ok, err := s.MarkChallengeConsumed(ctx, "a@x.com", entity.PurposeReset, 10)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, s.PutChallenge(ctx, challenge(12, "a@x.com", entity.PurposeReset)))
		got, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeReset)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.ID)
		assert.False(t, got.Consumed)
		assert.Nil(t, got.ConsumedAt)
	})

	t.Run("consume is compare-and-set", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		ok, err := s.MarkChallengeConsumed(ctx, "a@x.com", entity.PurposeRegister, 10)
		require.NoError(t, err)
		assert.False(t, ok, "empty slot")

		require.NoError(t, s.PutChallenge(ctx, challenge(10, "a@x.com", entity.PurposeRegister)))

		ok, err = s.MarkChallengeConsumed(ctx, "a@x.com", entity.PurposeRegister, 99)
		require.NoError(t, err)
		assert.False(t, ok, "stale id")

		ok, err = s.MarkChallengeConsumed(ctx, "A@x.com", entity.PurposeRegister, 10)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.MarkChallengeConsumed(ctx, "a@x.com", entity.PurposeRegister, 10)
		require.NoError(t, err)
		assert.False(t, ok, "already consumed")

		got, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeRegister)
		require.NoError(t, err)
		assert.True(t, got.Consumed)
		assert.NotNil(t, got.ConsumedAt)
	})

	t.Run("concurrent consume succeeds once", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.PutChallenge(ctx, challenge(10, "a@x.com", entity.PurposeRegister)))

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for range 16 {
			wg.Go(func() {
				ok, err := s.MarkChallengeConsumed(ctx, "a@x.com", entity.PurposeRegister, 10)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			})
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})
}

// ResetStore is a full store that consumes and sets the password in one step.
type ResetStore interface {
	AccountStore
	ChallengeStore
	ConsumeChallengeSetPassword(ctx context.Context, identity string, p entity.Purpose, challengeID int64, hash string) (bool, error)
}

// RunPasswordReset checks ConsumeChallengeSetPassword. newStore must return an empty store.
func RunPasswordReset(t *testing.T, newStore func(t *testing.T) ResetStore) {
	t.Helper()

	seed := func(t *testing.T, s ResetStore, withAccount bool) {
		t.Helper()
		ctx := context.Background()
		if withAccount {
			require.NoError(t, s.CreateAccount(ctx, entity.Account{ID: 1, Identity: "a@x.com", PasswordHash: "old", CreatedAt: base, UpdatedAt: base}))
		}
		require.NoError(t, s.PutChallenge(ctx, entity.Challenge{
			ID: 10, Identity: "a@x.com", Purpose: entity.PurposeResetGrant, CodeHash: "digest",
			IssuedAt: base, ExpiresAt: base.Add(5 * time.Minute),
		}))
	}

	t.Run("consumes and replaces once", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s, true)

		ok, err := s.ConsumeChallengeSetPassword(ctx, "A@x.com", entity.PurposeResetGrant, 10, "new")
		require.NoError(t, err)
		assert.True(t, ok)

		acc, err := s.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "new", acc.PasswordHash)
		ch, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeResetGrant)
		require.NoError(t, err)
		assert.True(t, ch.Consumed)

		ok, err = s.ConsumeChallengeSetPassword(ctx, "a@x.com", entity.PurposeResetGrant, 10, "newer")
		require.NoError(t, err)
		assert.False(t, ok)
		acc, err = s.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "new", acc.PasswordHash)
	})

	t.Run("stale challenge leaves password", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s, true)

		ok, err := s.ConsumeChallengeSetPassword(ctx, "a@x.com", entity.PurposeResetGrant, 99, "new")
		require.NoError(t, err)
		assert.False(t, ok)

		acc, err := s.FindAccount(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "old", acc.PasswordHash)
	})

	t.Run("missing account consumes nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s, false)

		_, err := s.ConsumeChallengeSetPassword(ctx, "a@x.com", entity.PurposeResetGrant, 10, "new")
		require.ErrorIs(t, err, goerror.ErrNotFound)

		ch, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeResetGrant)
		require.NoError(t, err)
		assert.False(t, ch.Consumed)
	})
}
