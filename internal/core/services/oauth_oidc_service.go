package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig configures a generic OpenID Connect provider discovered from its issuer.
type OIDCConfig struct {
	Name         string
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// IDTokenVerifierFunc verifies a raw id_token and returns its claims.
type IDTokenVerifierFunc func(ctx context.Context, rawIDToken string) (map[string]any, error)

// oidcOAuthService implements OAuthProviderSvc against any OIDC-compliant issuer.
// It returns identity facts only; user and session decisions are made by the caller.
type oidcOAuthService struct {
	BaseService
	name         string
	claimsKey    string
	oauth2Config *oauth2.Config
	claims       *ClaimsRegistry
	verify       IDTokenVerifierFunc
}

// OIDCOption is a function that configures an oidcOAuthService.
type OIDCOption func(*oidcOAuthService)

// WithIDTokenVerifier replaces the discovery-based id_token verifier.
func WithIDTokenVerifier(fn IDTokenVerifierFunc) OIDCOption {
	return func(s *oidcOAuthService) { s.verify = fn }
}

// NewOIDCOAuthService discovers the issuer and builds the adapter. Claims are
// normalized with the registry entry for cfg.Name when one exists, otherwise
// with the standard OIDC normalizer.
func NewOIDCOAuthService(ctx context.Context, cfg OIDCConfig, claims *ClaimsRegistry, opts ...OIDCOption) (portssvc.OAuthProviderSvc, error) {
	if cfg.Name == "" || cfg.IssuerURL == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("oidc provider config missing required fields: %w", apperrors.ErrConfiguration)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc provider %s: %w", cfg.Name, err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	name := strings.ToLower(cfg.Name)
	claimsKey := domain.ProviderOIDC
	if claims.Has(name) {
		claimsKey = name
	}

	s := &oidcOAuthService{
		name:      name,
		claimsKey: claimsKey,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		claims: claims,
		verify: func(ctx context.Context, rawIDToken string) (map[string]any, error) {
			idToken, err := verifier.Verify(ctx, rawIDToken)
			if err != nil {
				return nil, err
			}
			var out map[string]any
			if err := idToken.Claims(&out); err != nil {
				return nil, fmt.Errorf("failed to parse id_token claims: %w", err)
			}
			return out, nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *oidcOAuthService) Name() string {
	return s.name
}

func (s *oidcOAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *oidcOAuthService) Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", apperrors.ErrValidation)
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		s.LogWarn(ctx, "OIDC code exchange failed", slog.String("provider", s.name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s code exchange failed: %v", apperrors.ErrInvalidCredentials, s.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: %s did not return an id_token", apperrors.ErrInvalidCredentials, s.name)
	}

	claims, err := s.verify(ctx, rawIDToken)
	if err != nil {
		s.LogWarn(ctx, "OIDC id_token verification failed", slog.String("provider", s.name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s id_token verification failed: %v", apperrors.ErrInvalidCredentials, s.name, err)
	}

	profile, err := s.claims.Normalize(s.claimsKey, claims)
	if err != nil {
		return nil, err
	}
	profile.Tokens = tokensFromOAuth2(token)
	return &profile, nil
}
