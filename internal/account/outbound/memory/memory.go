// Package memory is an in-process credential store guarded by one mutex.
package memory

import (
	"context"
	"sync"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

type slotKey struct {
	identity string
	purpose  entity.Purpose
}

type Store struct {
	clock clock.Clocker

	mu         sync.Mutex
	accounts   map[string]entity.Account
	challenges map[slotKey]entity.Challenge
}

func New(clk clock.Clocker) *Store {
	return &Store{
		clock:      clk,
		accounts:   map[string]entity.Account{},
		challenges: map[slotKey]entity.Challenge{},
	}
}

func (s *Store) CreateAccount(ctx context.Context, acc entity.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entity.IdentityKey(acc.Identity)
	if _, ok := s.accounts[key]; ok {
		return goerror.ErrConflict
	}
	s.accounts[key] = acc
	return nil
}

func (s *Store) FindAccount(ctx context.Context, identity string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[entity.IdentityKey(identity)]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) SetPassword(ctx context.Context, identity, hash string) error {
	return s.update(ctx, identity, func(acc *entity.Account) { acc.PasswordHash = hash })
}

func (s *Store) SetVerified(ctx context.Context, identity string) error {
	return s.update(ctx, identity, func(acc *entity.Account) { acc.Verified = true })
}

func (s *Store) update(ctx context.Context, identity string, fn func(*entity.Account)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entity.IdentityKey(identity)
	acc, ok := s.accounts[key]
	if !ok {
		return goerror.ErrNotFound
	}
	fn(&acc)
	acc.UpdatedAt = s.clock.Now()
	s.accounts[key] = acc
	return nil
}

func (s *Store) PutChallenge(ctx context.Context, ch entity.Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch.Code = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[slotKey{entity.IdentityKey(ch.Identity), ch.Purpose}] = ch
	return nil
}

func (s *Store) TakeChallenge(ctx context.Context, identity string, p entity.Purpose) (*entity.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[slotKey{entity.IdentityKey(identity), p}]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &ch, nil
}

func (s *Store) MarkChallengeConsumed(ctx context.Context, identity string, p entity.Purpose, challengeID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{entity.IdentityKey(identity), p}
	ch, ok := s.challenges[key]
	if !ok || ch.ID != challengeID || ch.Consumed {
		return false, nil
	}

	now := s.clock.Now()
	ch.Consumed = true
	ch.ConsumedAt = &now
	s.challenges[key] = ch
	return true, nil
}

// ConsumeChallengeSetPassword consumes challenge challengeID and replaces the
// password under one lock. A missing account consumes nothing.
func (s *Store) ConsumeChallengeSetPassword(ctx context.Context, identity string, p entity.Purpose, challengeID int64, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entity.IdentityKey(identity)
	acc, ok := s.accounts[key]
	if !ok {
		return false, goerror.ErrNotFound
	}

	slot := slotKey{key, p}
	ch, ok := s.challenges[slot]
	if !ok || ch.ID != challengeID || ch.Consumed {
		return false, nil
	}

	now := s.clock.Now()
	ch.Consumed = true
	ch.ConsumedAt = &now
	s.challenges[slot] = ch

	acc.PasswordHash = hash
	acc.UpdatedAt = now
	s.accounts[key] = acc
	return true, nil
}

// Ping always succeeds.
func (*Store) Ping(context.Context) error { return nil }
