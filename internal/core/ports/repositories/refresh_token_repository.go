package repositories

import (
	"context"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

// RefreshTokenRepository defines data access for issued refresh tokens.
// Rows are never deleted; revocation is a one-way flag.
type RefreshTokenRepository interface {
	// Create persists a newly minted refresh token.
	Create(ctx context.Context, token domain.IssuedRefreshToken) error

	// FindByToken looks a row up by the exact token string. Returns apperrors.ErrNotFound when absent.
	FindByToken(ctx context.Context, token string) (*domain.IssuedRefreshToken, error)

	// Revoke marks the row revoked if it is still active. It reports whether
	// this call performed the transition.
	Revoke(ctx context.Context, id string) (bool, error)

	// RevokeByToken is Revoke keyed by token string.
	RevokeByToken(ctx context.Context, token string) (bool, error)
}
