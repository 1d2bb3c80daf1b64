package db

import (
	"context"

	"github.com/shandysiswandi/bazaar/internal/account/entity"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
)

const (
	queryInsertAccount = `
		INSERT INTO account_users (id, identity, identity_key, display_name, password_hash, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	queryFindAccount = `
		SELECT id, identity, display_name, password_hash, verified, created_at, updated_at
		FROM account_users
		WHERE identity_key = $1`

	querySetPassword = `
		UPDATE account_users SET password_hash = $2, updated_at = $3
		WHERE identity_key = $1`

	querySetVerified = `
		UPDATE account_users SET verified = TRUE, updated_at = $2
		WHERE identity_key = $1`
)

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryInsertAccount,
		acc.ID, acc.Identity, entity.IdentityKey(acc.Identity), acc.DisplayName,
		acc.PasswordHash, acc.Verified, acc.CreatedAt, acc.UpdatedAt)
	return s.mapError(err)
}

func (s *DB) FindAccount(ctx context.Context, identity string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindAccount")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	err = s.conn.QueryRow(ctx, queryFindAccount, entity.IdentityKey(identity)).Scan(
		&acc.ID, &acc.Identity, &acc.DisplayName, &acc.PasswordHash,
		&acc.Verified, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	acc.CreatedAt = acc.CreatedAt.UTC()
	acc.UpdatedAt = acc.UpdatedAt.UTC()
	return &acc, nil
}

func (s *DB) SetPassword(ctx context.Context, identity, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "SetPassword")
	defer func() { s.endSpan(span, err) }()

	return s.execOne(ctx, querySetPassword, entity.IdentityKey(identity), hash, s.clock.Now())
}

func (s *DB) SetVerified(ctx context.Context, identity string) (err error) {
	ctx, span := s.startSpan(ctx, "SetVerified")
	defer func() { s.endSpan(span, err) }()

	return s.execOne(ctx, querySetVerified, entity.IdentityKey(identity), s.clock.Now())
}

// execOne runs an update that must touch exactly one account.
func (s *DB) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := s.conn.Exec(ctx, query, args...)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}
	return nil
}
