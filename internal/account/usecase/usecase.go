package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/config"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/hash"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
	"github.com/shandysiswandi/bazaar/internal/pkg/otp"
	"github.com/shandysiswandi/bazaar/internal/pkg/uid"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// DefaultOTPTTL applies when modules.account.otp.ttl_seconds is unset.
const DefaultOTPTTL = 300 * time.Second

type accountStore interface {
	CreateAccount(ctx context.Context, acc entity.Account) error
	FindAccount(ctx context.Context, identity string) (*entity.Account, error)
	SetPassword(ctx context.Context, identity, hash string) error
	SetVerified(ctx context.Context, identity string) error
}

type challengeStore interface {
	PutChallenge(ctx context.Context, ch entity.Challenge) error
	TakeChallenge(ctx context.Context, identity string, p entity.Purpose) (*entity.Challenge, error)
	MarkChallengeConsumed(ctx context.Context, identity string, p entity.Purpose, challengeID int64) (bool, error)
}

// Store is the credential store: accounts plus one challenge slot per
// (identity, purpose). Identities compare case-insensitively. Adapters
// report absence with goerror.ErrNotFound and duplicates with
// goerror.ErrConflict.
type Store interface {
	accountStore
	challengeStore
}

// Transport delivers an issued code to the account holder.
type Transport interface {
	Send(ctx context.Context, d entity.Dispatch) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Usecase struct {
	store     Store
	transport Transport
	issuer    *Issuer
	otp       *OTPValidator
	validator validator.Validator
	password  hash.Hash
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	Store      Store
	Transport  Transport
	Validator  validator.Validator
	Config     config.Config
	Password   hash.Hash
	CodeHash   hash.Hash
	Generator  otp.Generator
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ttl := dep.Config.GetSecond("modules.account.otp.ttl_seconds")
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}

	return &Usecase{
		store:     dep.Store,
		transport: dep.Transport,
		issuer:    NewIssuer(dep.Store, dep.Generator, dep.CodeHash, dep.UID, dep.Clock, ttl, dep.Instrument),
		otp:       NewOTPValidator(dep.Store, dep.CodeHash, dep.Clock, dep.Instrument),
		validator: dep.Validator,
		password:  dep.Password,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

// Health reports whether the store is reachable.
func (s *Usecase) Health(ctx context.Context) error {
	p, ok := s.store.(pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ping account store", "error", err)
		return goerror.NewUnavailable("store unreachable").Wrap(err)
	}
	return nil
}

// issueAndDispatch persists a fresh challenge, then hands the code to the
// transport. A transport failure leaves the challenge in place.
func (s *Usecase) issueAndDispatch(ctx context.Context, acc *entity.Account, p entity.Purpose) (*entity.Challenge, error) {
	ch, err := s.issuer.Issue(ctx, acc.Identity, p)
	if err != nil {
		return nil, err
	}

	if err := s.transport.Send(ctx, entity.Dispatch{
		Identity:    acc.Identity,
		DisplayName: acc.DisplayName,
		Purpose:     p,
		Code:        ch.Code,
		ExpiresAt:   ch.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch otp", "identity", acc.Identity, "purpose", p.String(), "error", err)
		return nil, entity.ErrDelivery.Wrap(err)
	}

	return ch, nil
}

func normalizeIdentity(identity string) string {
	return strings.TrimSpace(identity)
}
