package services

import (
	"context"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
	"github.com/SscSPs/auth_session_service/internal/dto"
)

// CredentialVerifierSvc hashes and checks passwords.
type CredentialVerifierSvc interface {
	// HashPassword returns a one-way hash suitable for storage.
	HashPassword(plain string) (string, error)
	// VerifyPassword compares candidate against storedHash in constant time.
	// A mismatch is (false, nil); an empty or malformed hash is an error.
	VerifyPassword(storedHash, candidate string) (bool, error)
}

// IdentityResolverSvc reconciles provider identities with local users.
type IdentityResolverSvc interface {
	// ResolveByProvider returns the linked user, or (nil, nil) when no link exists.
	ResolveByProvider(ctx context.Context, provider, providerID string) (*domain.User, error)
	// ResolveOrCreate returns the linked user, creating user and identity atomically on first sight.
	ResolveOrCreate(ctx context.Context, provider string, profile domain.ProviderProfile) (*domain.User, error)
	// LinkAdditionalIdentity binds a provider identity to an existing user.
	LinkAdditionalIdentity(ctx context.Context, userID, provider, providerID string, tokens domain.ProviderTokens) error
}

// TokenAuthoritySvc mints, verifies, rotates and revokes session tokens.
type TokenAuthoritySvc interface {
	// MintPair signs an access/refresh pair and persists the refresh half before returning.
	MintPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error)
	// Verify checks signature and expiry only.
	Verify(token string) (*domain.TokenClaims, error)
	// VerifyAccessToken verifies token and requires it to be an access token. Returns the subject.
	VerifyAccessToken(token string) (string, error)
	// RedeemRefresh rotates a refresh token. Each refresh token redeems at most once.
	RedeemRefresh(ctx context.Context, token string) (*domain.TokenPair, error)
	// Revoke marks a refresh token revoked. Unknown or already revoked tokens are not an error.
	Revoke(ctx context.Context, token string) error
}

// SessionSvcFacade is the entry point the transport layer uses for authentication.
type SessionSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	LoginViaProvider(ctx context.Context, provider string, profile domain.ProviderProfile) (*domain.User, error)
	IssueSessionFor(ctx context.Context, user *domain.User) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccessToken(ctx context.Context, accessToken string) (string, error)
	LinkIdentity(ctx context.Context, userID, provider string, profile domain.ProviderProfile) error
}

// OAuthProviderSvc performs the authorization-code handshake with one identity provider.
type OAuthProviderSvc interface {
	// Name is the provider key used in routes and social_accounts.provider.
	Name() string
	// AuthCodeURL returns the provider consent URL carrying state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for a verified, normalized profile.
	Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error)
}

// OAuthProviderRegistry resolves provider adapters by name.
type OAuthProviderRegistry interface {
	Get(name string) (OAuthProviderSvc, error)
	Names() []string
}

// OAuthStateStore issues and consumes single-use OAuth state values.
type OAuthStateStore interface {
	Issue(ctx context.Context, provider string) (string, error)
	Consume(ctx context.Context, state, provider string) error
}
