// Package cache keeps OTP challenge slots in Redis, one key per
// (purpose, identity).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/clock"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultGrace keeps a slot readable after expiry so late submissions are
// reported as expired rather than missing.
const DefaultGrace = time.Hour

var errNoSwap = errors.New("cache: challenge not consumable")

type record struct {
	ID         int64      `json:"id"`
	Identity   string     `json:"identity"`
	CodeHash   string     `json:"code_hash"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Consumed   bool       `json:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

type Cache struct {
	client *redis.Client
	prefix string
	grace  time.Duration
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, clk clock.Clocker, ins instrument.Instrumentation) *Cache {
	return &Cache{
		client: client,
		prefix: "account:challenge:",
		grace:  DefaultGrace,
		clock:  clk,
		ins:    ins,
	}
}

func (c *Cache) key(identity string, p entity.Purpose) string {
	return c.prefix + p.String() + ":" + entity.IdentityKey(identity)
}

func (c *Cache) PutChallenge(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := c.startSpan(ctx, "PutChallenge")
	defer func() { c.endSpan(span, err) }()

	data, err := json.Marshal(record{
		ID:        ch.ID,
		Identity:  ch.Identity,
		CodeHash:  ch.CodeHash,
		IssuedAt:  ch.IssuedAt,
		ExpiresAt: ch.ExpiresAt,
	})
	if err != nil {
		return err
	}

	ttl := ch.ExpiresAt.Sub(c.clock.Now()) + c.grace
	if ttl <= 0 {
		ttl = c.grace
	}

	return c.client.Set(ctx, c.key(ch.Identity, ch.Purpose), data, ttl).Err()
}

func (c *Cache) TakeChallenge(ctx context.Context, identity string, p entity.Purpose) (_ *entity.Challenge, err error) {
	ctx, span := c.startSpan(ctx, "TakeChallenge")
	defer func() { c.endSpan(span, err) }()

	raw, err := c.client.Get(ctx, c.key(identity, p)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	return &entity.Challenge{
		ID:         rec.ID,
		Identity:   rec.Identity,
		Purpose:    p,
		CodeHash:   rec.CodeHash,
		IssuedAt:   rec.IssuedAt.UTC(),
		ExpiresAt:  rec.ExpiresAt.UTC(),
		Consumed:   rec.Consumed,
		ConsumedAt: rec.ConsumedAt,
	}, nil
}

// MarkChallengeConsumed flips the slot inside a WATCH transaction. A
// concurrent write to the key aborts the transaction and reports false.
func (c *Cache) MarkChallengeConsumed(ctx context.Context, identity string, p entity.Purpose, challengeID int64) (_ bool, err error) {
	ctx, span := c.startSpan(ctx, "MarkChallengeConsumed")
	defer func() { c.endSpan(span, err) }()

	key := c.key(identity, p)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return errNoSwap
		}
		if err != nil {
			return err
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		if rec.ID != challengeID || rec.Consumed {
			return errNoSwap
		}

		now := c.clock.Now()
		rec.Consumed = true
		rec.ConsumedAt = &now
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errNoSwap), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("account.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
