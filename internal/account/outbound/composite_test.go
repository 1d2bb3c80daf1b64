package outbound

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/account/outbound/memory"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downChallenges struct {
	ChallengeStore
}

func (downChallenges) Ping(context.Context) error { return errors.New("redis down") }

func TestComposite_RoutesHalves(t *testing.T) {
	accounts := memory.New(clock.New())
	challenges := memory.New(clock.New())
	c := NewComposite(accounts, challenges)
	ctx := context.Background()

	require.NoError(t, c.CreateAccount(ctx, entity.Account{ID: 1, Identity: "a@x.com"}))
	require.NoError(t, c.PutChallenge(ctx, entity.Challenge{ID: 2, Identity: "a@x.com", Purpose: entity.PurposeRegister}))

	_, err := accounts.FindAccount(ctx, "a@x.com")
	require.NoError(t, err)
	_, err = challenges.TakeChallenge(ctx, "a@x.com", entity.PurposeRegister)
	require.NoError(t, err)
	_, err = accounts.TakeChallenge(ctx, "a@x.com", entity.PurposeRegister)
	require.Error(t, err)

	require.NoError(t, c.Ping(ctx))
}

func TestComposite_PingReportsFailingHalf(t *testing.T) {
	c := NewComposite(memory.New(clock.New()), downChallenges{})

	err := c.Ping(context.Background())

	assert.ErrorContains(t, err, "redis down")
}
