package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/platform/config"
	"github.com/SscSPs/auth_session_service/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// stateStore may be nil, in which case redirect-based provider login is unavailable.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	m *metrics.Metrics,
	providers portssvc.OAuthProviderRegistry,
	stateStore portssvc.OAuthStateStore,
) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{
		Providers:  providers,
		OAuthState: stateStore,
	}

	tokens, err := NewTokenService(TokenConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.JWTExpiryDuration,
		RefreshTTL: cfg.RefreshTokenExpiryDuration,
	}, repos.RefreshTokenRepo, repos.UserRepo, WithTokenMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	container.Token = tokens

	identities := NewIdentityService(repos.UserRepo, repos.LinkedIdentityRepo, WithIdentityMetrics(m))

	container.Session = NewSessionService(
		repos.UserRepo,
		NewCredentialService(cfg.BcryptCost),
		identities,
		tokens,
		WithSessionMetrics(m),
	)
	container.User = NewUserService(repos.UserRepo, repos.LinkedIdentityRepo)

	return container, nil
}

// NewProviderRegistryFromConfig builds the adapters for every fully configured provider.
// A provider whose discovery fails is logged and left out rather than failing startup.
func NewProviderRegistryFromConfig(ctx context.Context, cfg *config.Config, claims *ClaimsRegistry, logger *slog.Logger) portssvc.OAuthProviderRegistry {
	var providers []portssvc.OAuthProviderSvc

	if cfg.GoogleEnabled() {
		google, err := NewGoogleOAuthService(GoogleOAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}, claims)
		if err != nil {
			logger.Error("Failed to configure Google provider", slog.String("error", err.Error()))
		} else {
			providers = append(providers, google)
		}
	}

	if cfg.FacebookEnabled() {
		fb, err := NewFacebookOAuthService(FacebookOAuthConfig{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.FacebookRedirectURL,
		}, claims)
		if err != nil {
			logger.Error("Failed to configure Facebook provider", slog.String("error", err.Error()))
		} else {
			providers = append(providers, fb)
		}
	}

	if cfg.OIDCEnabled() {
		generic, err := NewOIDCOAuthService(ctx, OIDCConfig{
			Name:         cfg.OIDCProviderName,
			IssuerURL:    cfg.OIDCIssuerURL,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
		}, claims)
		if err != nil {
			logger.Error("Failed to configure OIDC provider",
				slog.String("provider", cfg.OIDCProviderName),
				slog.String("error", err.Error()))
		} else {
			providers = append(providers, generic)
		}
	}

	registry := NewProviderRegistry(providers...)
	logger.Info("OAuth providers configured", slog.Any("providers", registry.Names()))
	return registry
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CredentialVerifierSvc = (*credentialService)(nil)
	_ portssvc.IdentityResolverSvc   = (*identityService)(nil)
	_ portssvc.TokenAuthoritySvc     = (*tokenService)(nil)
	_ portssvc.SessionSvcFacade      = (*sessionService)(nil)
	_ portssvc.UserSvcFacade         = (*userService)(nil)
	_ portssvc.OAuthProviderSvc      = (*googleOAuthService)(nil)
	_ portssvc.OAuthProviderSvc      = (*facebookOAuthService)(nil)
	_ portssvc.OAuthProviderSvc      = (*oidcOAuthService)(nil)
)
