// Package outbound holds the credential store adapters of the account module.
package outbound

import (
	"context"
	"errors"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
)

type AccountStore interface {
	CreateAccount(ctx context.Context, acc entity.Account) error
	FindAccount(ctx context.Context, identity string) (*entity.Account, error)
	SetPassword(ctx context.Context, identity, hash string) error
	SetVerified(ctx context.Context, identity string) error
}

type ChallengeStore interface {
	PutChallenge(ctx context.Context, ch entity.Challenge) error
	TakeChallenge(ctx context.Context, identity string, p entity.Purpose) (*entity.Challenge, error)
	MarkChallengeConsumed(ctx context.Context, identity string, p entity.Purpose, challengeID int64) (bool, error)
}

// Composite serves accounts and challenges from two different stores.
type Composite struct {
	AccountStore
	ChallengeStore
}

func NewComposite(accounts AccountStore, challenges ChallengeStore) *Composite {
	return &Composite{AccountStore: accounts, ChallengeStore: challenges}
}

// Ping pings whichever halves support it.
func (c *Composite) Ping(ctx context.Context) error {
	var errs []error
	for _, half := range []any{c.AccountStore, c.ChallengeStore} {
		if p, ok := half.(interface{ Ping(context.Context) error }); ok {
			errs = append(errs, p.Ping(ctx))
		}
	}
	return errors.Join(errs...)
}
