package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

const (
	// A re-issue replaces the whole row, which resets consumption.
	queryPutChallenge = `
		INSERT INTO account_challenges (identity_key, purpose, id, identity, code_hash, issued_at, expires_at, consumed, consumed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NULL)
		ON CONFLICT (identity_key, purpose) DO UPDATE SET
			id          = EXCLUDED.id,
			identity    = EXCLUDED.identity,
			code_hash   = EXCLUDED.code_hash,
			issued_at   = EXCLUDED.issued_at,
			expires_at  = EXCLUDED.expires_at,
			consumed    = FALSE,
			consumed_at = NULL`

	queryTakeChallenge = `
		SELECT id, identity, code_hash, issued_at, expires_at, consumed, consumed_at
		FROM account_challenges
		WHERE identity_key = $1 AND purpose = $2`

	queryConsumeChallenge = `
		UPDATE account_challenges SET consumed = TRUE, consumed_at = $4
		WHERE identity_key = $1 AND purpose = $2 AND id = $3 AND consumed = FALSE`
)

func (s *DB) PutChallenge(ctx context.Context, ch entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "PutChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryPutChallenge,
		entity.IdentityKey(ch.Identity), int16(ch.Purpose), ch.ID, ch.Identity,
		ch.CodeHash, ch.IssuedAt, ch.ExpiresAt)
	return s.mapError(err)
}

func (s *DB) TakeChallenge(ctx context.Context, identity string, p entity.Purpose) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "TakeChallenge")
	defer func() { s.endSpan(span, err) }()

	ch := entity.Challenge{Purpose: p}
	var consumedAt *time.Time
	err = s.conn.QueryRow(ctx, queryTakeChallenge, entity.IdentityKey(identity), int16(p)).Scan(
		&ch.ID, &ch.Identity, &ch.CodeHash, &ch.IssuedAt, &ch.ExpiresAt, &ch.Consumed, &consumedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	ch.IssuedAt = ch.IssuedAt.UTC()
	ch.ExpiresAt = ch.ExpiresAt.UTC()
	if consumedAt != nil {
		t := consumedAt.UTC()
		ch.ConsumedAt = &t
	}
	return &ch, nil
}

func (s *DB) MarkChallengeConsumed(ctx context.Context, identity string, p entity.Purpose, challengeID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkChallengeConsumed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryConsumeChallenge, entity.IdentityKey(identity), int16(p), challengeID, s.clock.Now())
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// ConsumeChallengeSetPassword consumes the challenge and replaces the password
// in one transaction. A missing account rolls the consume back.
func (s *DB) ConsumeChallengeSetPassword(ctx context.Context, identity string, p entity.Purpose, challengeID int64, hash string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeChallengeSetPassword")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	key := entity.IdentityKey(identity)
	now := s.clock.Now()

	tag, err := tx.Exec(ctx, queryConsumeChallenge, key, int16(p), challengeID, now)
	if err != nil {
		return false, s.mapError(err)
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	tag, err = tx.Exec(ctx, querySetPassword, key, hash, now)
	if err != nil {
		return false, s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return false, goerror.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return false, s.mapError(err)
	}
	return true, nil
}
