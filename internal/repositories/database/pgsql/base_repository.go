package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// Named constraints from the migrations. Unique violations on these map to
// domain errors instead of the generic ErrDuplicate alone.
const (
	constraintUsersEmail         = "uq_users_email"
	constraintSocialUserProvider = "uq_social_accounts_user_provider"
	constraintSocialProviderID   = "uq_social_accounts_provider_identity"
	constraintRefreshTokensToken = "uq_refresh_tokens_token"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (r *BaseRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// mapWriteError converts driver errors from INSERT/UPDATE statements into
// apperrors sentinels. Unique violations always wrap ErrDuplicate, and also the
// domain error for the constraint when one is known.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	switch pgErr.ConstraintName {
	case constraintUsersEmail:
		return fmt.Errorf("failed to %s: %w: %w", op, apperrors.ErrDuplicate, apperrors.ErrEmailAlreadyExists)
	case constraintSocialProviderID:
		return fmt.Errorf("failed to %s: %w: %w", op, apperrors.ErrDuplicate, apperrors.ErrAlreadyLinkedToOtherAccount)
	case constraintSocialUserProvider:
		return fmt.Errorf("failed to %s: %w: %w", op, apperrors.ErrDuplicate, apperrors.ErrProviderAlreadyLinked)
	case constraintRefreshTokensToken:
		return fmt.Errorf("failed to %s: refresh token collision: %w", op, apperrors.ErrDuplicate)
	default:
		return fmt.Errorf("failed to %s (constraint %s): %w", op, pgErr.ConstraintName, apperrors.ErrDuplicate)
	}
}

// mapReadError converts pgx.ErrNoRows into apperrors.ErrNotFound.
func mapReadError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
