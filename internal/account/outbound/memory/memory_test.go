package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/storetest"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Accounts(t *testing.T) {
	storetest.RunAccounts(t, func(*testing.T) storetest.AccountStore {
		return New(clock.New())
	})
}

func TestStore_Challenges(t *testing.T) {
	storetest.RunChallenges(t, func(*testing.T) storetest.ChallengeStore {
		return New(clock.New())
	})
}

func TestStore_PasswordReset(t *testing.T) {
	storetest.RunPasswordReset(t, func(*testing.T) storetest.ResetStore {
		return New(clock.New())
	})
}

func TestStore_StampsUpdatedAtAndConsumedAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewManual(start)
	s := New(clk)
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, entity.Account{ID: 1, Identity: "a@x.com", CreatedAt: start, UpdatedAt: start}))
	clk.Advance(time.Minute)
	require.NoError(t, s.SetVerified(ctx, "a@x.com"))

	acc, err := s.FindAccount(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Minute), acc.UpdatedAt)

	require.NoError(t, s.PutChallenge(ctx, entity.Challenge{ID: 5, Identity: "a@x.com", Purpose: entity.PurposeRegister}))
	ok, err := s.MarkChallengeConsumed(ctx, "a@x.com", entity.PurposeRegister, 5)
	require.NoError(t, err)
	require.True(t, ok)

	ch, err := s.TakeChallenge(ctx, "a@x.com", entity.PurposeRegister)
	require.NoError(t, err)
	require.NotNil(t, ch.ConsumedAt)
	assert.Equal(t, start.Add(time.Minute), *ch.ConsumedAt)
}

func TestStore_CanceledContext(t *testing.T) {
	s := New(clock.New())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindAccount(ctx, "a@x.com")
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, s.Ping(context.Background()))
}
