package repositories

import (
	"context"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

// LinkedIdentityRepository defines data access for social_accounts.
type LinkedIdentityRepository interface {
	// FindByProvider returns the identity for (provider, providerID) or apperrors.ErrNotFound.
	FindByProvider(ctx context.Context, provider, providerID string) (*domain.LinkedIdentity, error)

	// FindByUserAndProvider returns the user's identity for provider or apperrors.ErrNotFound.
	FindByUserAndProvider(ctx context.Context, userID, provider string) (*domain.LinkedIdentity, error)

	// ListByUserID returns every identity linked to the user, oldest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.LinkedIdentity, error)

	// Create persists a new identity. Unique violations surface as apperrors.ErrDuplicate.
	Create(ctx context.Context, identity domain.LinkedIdentity) error
}
