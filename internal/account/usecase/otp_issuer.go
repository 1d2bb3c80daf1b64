package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/hash"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/otp"
	"github.com/shandysiswandi/bazaar/internal/pkg/uid"
)

// Issuer creates challenges. Each issuance overwrites the slot for
// (identity, purpose), so an older code stops validating.
type Issuer struct {
	store  challengeStore
	gen    otp.Generator
	digest hash.Hash
	uid    uid.NumberID
	clock  clock.Clocker
	ttl    time.Duration
	ins    instrument.Instrumentation
}

func NewIssuer(
	store challengeStore,
	gen otp.Generator,
	digest hash.Hash,
	id uid.NumberID,
	clk clock.Clocker,
	ttl time.Duration,
	ins instrument.Instrumentation,
) *Issuer {
	return &Issuer{store: store, gen: gen, digest: digest, uid: id, clock: clk, ttl: ttl, ins: ins}
}

// Issue stores a new challenge and returns it with the plaintext Code set.
func (i *Issuer) Issue(ctx context.Context, identity string, p entity.Purpose) (*entity.Challenge, error) {
	ctx, span := i.ins.Tracer("account.usecase").Start(ctx, "Issuer.Issue")
	defer span.End()

	code, err := i.gen.Code()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := i.digest.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := i.clock.Now()
	ch := entity.Challenge{
		ID:        i.uid.Generate(),
		Identity:  identity,
		Purpose:   p,
		CodeHash:  string(codeHash),
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}

	if err := i.store.PutChallenge(ctx, ch); err != nil {
		slog.ErrorContext(ctx, "failed to repo put challenge", "identity", identity, "purpose", p.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	ch.Code = code
	return &ch, nil
}

// Grant records that the RESET challenge confirmed has been confirmed. The
// grant reuses its id, digest and expiry so the same code can set the
// password once, and only while confirmed is still the current RESET slot.
func (i *Issuer) Grant(ctx context.Context, confirmed *entity.Challenge) error {
	ctx, span := i.ins.Tracer("account.usecase").Start(ctx, "Issuer.Grant")
	defer span.End()

	grant := entity.Challenge{
		ID:        confirmed.ID,
		Identity:  confirmed.Identity,
		Purpose:   entity.PurposeResetGrant,
		CodeHash:  confirmed.CodeHash,
		IssuedAt:  i.clock.Now(),
		ExpiresAt: confirmed.ExpiresAt,
	}

	if err := i.store.PutChallenge(ctx, grant); err != nil {
		slog.ErrorContext(ctx, "failed to repo put reset grant", "identity", confirmed.Identity, "challenge_id", confirmed.ID, "error", err)
		return goerror.NewServer(err)
	}
	return nil
}
