package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/hash"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
)

// OTPValidator checks a submitted code against the slot for
// (identity, purpose) and consumes it on success.
type OTPValidator struct {
	store  challengeStore
	digest hash.Hash
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewOTPValidator(store challengeStore, digest hash.Hash, clk clock.Clocker, ins instrument.Instrumentation) *OTPValidator {
	return &OTPValidator{store: store, digest: digest, clock: clk, ins: ins}
}

// Validate returns nil exactly once per issued code. Checks run in a fixed
// order: missing slot, consumed, expired, mismatch.
func (v *OTPValidator) Validate(ctx context.Context, identity string, p entity.Purpose, code string) error {
	_, err := v.ValidateChallenge(ctx, identity, p, code)
	return err
}

// ValidateChallenge is Validate returning the consumed challenge.
func (v *OTPValidator) ValidateChallenge(ctx context.Context, identity string, p entity.Purpose, code string) (*entity.Challenge, error) {
	ctx, span := v.ins.Tracer("account.usecase").Start(ctx, "OTPValidator.Validate")
	defer span.End()

	ch, err := v.Check(ctx, identity, p, code)
	if err != nil {
		return nil, err
	}

	ok, err := v.store.MarkChallengeConsumed(ctx, identity, p, ch.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark challenge consumed", "identity", identity, "challenge_id", ch.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, v.Lost(ctx, identity, p, ch)
	}

	return ch, nil
}

// Check runs the validation order without consuming the challenge.
func (v *OTPValidator) Check(ctx context.Context, identity string, p entity.Purpose, code string) (*entity.Challenge, error) {
	ch, err := v.take(ctx, identity, p)
	if err != nil {
		return nil, err
	}

	if ch.Consumed {
		return nil, entity.ErrAlreadyConsumed
	}

	if ch.Expired(v.clock.Now()) {
		return nil, entity.ErrExpired
	}

	if !v.digest.Verify(ch.CodeHash, code) {
		return nil, entity.ErrMismatch
	}

	return ch, nil
}

// Lost explains a compare-and-set that did not consume ch: either a
// concurrent validation consumed it or a new issuance replaced it.
func (v *OTPValidator) Lost(ctx context.Context, identity string, p entity.Purpose, ch *entity.Challenge) error {
	latest, err := v.take(ctx, identity, p)
	if err != nil {
		return err
	}
	if latest.ID == ch.ID && latest.Consumed {
		return entity.ErrAlreadyConsumed
	}
	return entity.ErrMismatch
}

func (v *OTPValidator) take(ctx context.Context, identity string, p entity.Purpose) (*entity.Challenge, error) {
	ch, err := v.store.TakeChallenge(ctx, identity, p)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, entity.ErrNoChallenge
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo take challenge", "identity", identity, "purpose", p.String(), "error", err)
		return nil, goerror.NewServer(err)
	}
	return ch, nil
}
