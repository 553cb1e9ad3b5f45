package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// IDTokenValidator verifies a raw id_token for audience and returns its claims.
type IDTokenValidator func(ctx context.Context, rawIDToken, audience string) (map[string]any, error)

// GoogleOAuthConfig holds the client registration for Google sign-in.
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// googleOAuthService implements OAuthProviderSvc for Google.
type googleOAuthService struct {
	BaseService
	oauth2Config    *oauth2.Config
	claims          *ClaimsRegistry
	validateIDToken IDTokenValidator
}

// GoogleOAuthOption is a function that configures a googleOAuthService.
type GoogleOAuthOption func(*googleOAuthService)

// WithIDTokenValidator replaces the Google id_token validator.
func WithIDTokenValidator(fn IDTokenValidator) GoogleOAuthOption {
	return func(s *googleOAuthService) { s.validateIDToken = fn }
}

// WithGoogleEndpoint overrides the OAuth endpoints, e.g. for a local stub.
func WithGoogleEndpoint(ep oauth2.Endpoint) GoogleOAuthOption {
	return func(s *googleOAuthService) { s.oauth2Config.Endpoint = ep }
}

// NewGoogleOAuthService creates the Google adapter.
func NewGoogleOAuthService(cfg GoogleOAuthConfig, claims *ClaimsRegistry, opts ...GoogleOAuthOption) (portssvc.OAuthProviderSvc, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("google oauth config missing required fields: %w", apperrors.ErrConfiguration)
	}
	s := &googleOAuthService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		claims:          claims,
		validateIDToken: validateGoogleIDToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func validateGoogleIDToken(ctx context.Context, rawIDToken, audience string) (map[string]any, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, audience)
	if err != nil {
		return nil, err
	}
	return payload.Claims, nil
}

func (s *googleOAuthService) Name() string {
	return domain.ProviderGoogle
}

func (s *googleOAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the code for tokens, validates the id_token and normalizes its claims.
func (s *googleOAuthService) Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", apperrors.ErrValidation)
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		s.LogWarn(ctx, "Google code exchange failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: google code exchange failed: %v", apperrors.ErrInvalidCredentials, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: google did not return an id_token", apperrors.ErrInvalidCredentials)
	}

	claims, err := s.validateIDToken(ctx, rawIDToken, s.oauth2Config.ClientID)
	if err != nil {
		s.LogWarn(ctx, "Google id_token validation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: google id_token validation failed: %v", apperrors.ErrInvalidCredentials, err)
	}

	profile, err := s.claims.Normalize(domain.ProviderGoogle, claims)
	if err != nil {
		return nil, err
	}
	profile.Tokens = tokensFromOAuth2(token)
	return &profile, nil
}

// tokensFromOAuth2 copies the provider-issued credentials onto the domain type.
func tokensFromOAuth2(token *oauth2.Token) domain.ProviderTokens {
	out := domain.ProviderTokens{AccessToken: token.AccessToken}
	if token.RefreshToken != "" {
		rt := token.RefreshToken
		out.RefreshToken = &rt
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC()
		out.TokenExpiry = &exp
	}
	return out
}
