package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	"github.com/SscSPs/auth_session_service/internal/models"
	"github.com/SscSPs/auth_session_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRefreshTokenRepository struct {
	BaseRepository
}

func newPgxRefreshTokenRepository(db *pgxpool.Pool) portsrepo.RefreshTokenRepository {
	return &PgxRefreshTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RefreshTokenRepository = (*PgxRefreshTokenRepository)(nil)

const (
	insertRefreshTokenQuery = `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	findRefreshTokenQuery = `
		SELECT id, user_id, token, expires_at, created_at, revoked
		FROM refresh_tokens
		WHERE token = $1
	`

	// Conditional so concurrent redemptions of one token see exactly one success.
	revokeRefreshTokenQuery = `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE id = $1 AND revoked = FALSE
	`

	revokeRefreshTokenByTokenQuery = `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token = $1 AND revoked = FALSE
	`
)

func (r *PgxRefreshTokenRepository) Create(ctx context.Context, token domain.IssuedRefreshToken) error {
	m := mapping.ToModelRefreshToken(token)
	_, err := r.Pool.Exec(ctx, insertRefreshTokenQuery,
		m.ID,
		m.UserID,
		m.Token,
		m.ExpiresAt,
		m.CreatedAt,
		m.Revoked,
	)
	if err != nil {
		return mapWriteError("create refresh token", err)
	}
	return nil
}

func (r *PgxRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.IssuedRefreshToken, error) {
	var m models.RefreshToken
	err := r.Pool.QueryRow(ctx, findRefreshTokenQuery, token).Scan(
		&m.ID,
		&m.UserID,
		&m.Token,
		&m.ExpiresAt,
		&m.CreatedAt,
		&m.Revoked,
	)
	if err != nil {
		return nil, mapReadError("find refresh token", err)
	}
	d := mapping.ToDomainRefreshToken(m)
	return &d, nil
}

func (r *PgxRefreshTokenRepository) Revoke(ctx context.Context, id string) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, revokeRefreshTokenQuery, id)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token %s: %w", id, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxRefreshTokenRepository) RevokeByToken(ctx context.Context, token string) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, revokeRefreshTokenByTokenQuery, token)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
