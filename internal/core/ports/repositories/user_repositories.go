package repositories

import (
	"context"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email. Returns apperrors.ErrNotFound when absent.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProvider retrieves the user owning the (provider, providerID) identity.
	FindUserByProvider(ctx context.Context, provider, providerID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUserProfile updates the name and picture fields of an existing user.
	UpdateUserProfile(ctx context.Context, user domain.User) error
}

// UserIdentityCreator creates a user and its first linked identity together.
type UserIdentityCreator interface {
	// CreateUserWithIdentity inserts both rows in one transaction. Either both
	// are persisted or neither is.
	CreateUserWithIdentity(ctx context.Context, user domain.User, identity domain.LinkedIdentity) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserIdentityCreator
}
