package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const (
	defaultFacebookGraphURL = "https://graph.facebook.com/v19.0"
	facebookProfileFields   = "id,email,first_name,last_name,name,picture"
)

// FacebookOAuthConfig holds the client registration for Facebook login.
type FacebookOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// facebookOAuthService implements OAuthProviderSvc for Facebook. Facebook
// issues no id_token, so the profile comes from the Graph API.
type facebookOAuthService struct {
	BaseService
	oauth2Config *oauth2.Config
	graphURL     string
	claims       *ClaimsRegistry
}

// FacebookOAuthOption is a function that configures a facebookOAuthService.
type FacebookOAuthOption func(*facebookOAuthService)

// WithFacebookEndpoint overrides the OAuth endpoints, e.g. for a local stub.
func WithFacebookEndpoint(ep oauth2.Endpoint) FacebookOAuthOption {
	return func(s *facebookOAuthService) { s.oauth2Config.Endpoint = ep }
}

// WithGraphURL overrides the Graph API base URL.
func WithGraphURL(url string) FacebookOAuthOption {
	return func(s *facebookOAuthService) { s.graphURL = strings.TrimRight(url, "/") }
}

// NewFacebookOAuthService creates the Facebook adapter.
func NewFacebookOAuthService(cfg FacebookOAuthConfig, claims *ClaimsRegistry, opts ...FacebookOAuthOption) (portssvc.OAuthProviderSvc, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("facebook oauth config missing required fields: %w", apperrors.ErrConfiguration)
	}
	s := &facebookOAuthService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		graphURL: defaultFacebookGraphURL,
		claims:   claims,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *facebookOAuthService) Name() string {
	return domain.ProviderFacebook
}

func (s *facebookOAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// Exchange trades the code for an access token and reads the user's profile from /me.
func (s *facebookOAuthService) Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", apperrors.ErrValidation)
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		s.LogWarn(ctx, "Facebook code exchange failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: facebook code exchange failed: %v", apperrors.ErrInvalidCredentials, err)
	}

	claims, err := s.fetchProfile(ctx, token)
	if err != nil {
		s.LogWarn(ctx, "Facebook profile lookup failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: facebook profile lookup failed: %v", apperrors.ErrInvalidCredentials, err)
	}

	profile, err := s.claims.Normalize(domain.ProviderFacebook, claims)
	if err != nil {
		return nil, err
	}
	profile.Tokens = tokensFromOAuth2(token)
	return &profile, nil
}

func (s *facebookOAuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.graphURL+"/me?fields="+facebookProfileFields, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.oauth2Config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var claims map[string]any
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, fmt.Errorf("decode graph profile: %w", err)
	}
	return claims, nil
}
