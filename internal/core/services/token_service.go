package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/platform/metrics"
	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig holds the signing settings of the token authority.
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// tokenService mints, verifies and rotates signed session tokens.
// Refresh tokens are additionally tracked in the store so they can be revoked.
type tokenService struct {
	BaseService
	cfg         TokenConfig
	refreshRepo portsrepo.RefreshTokenRepository
	userRepo    portsrepo.UserReader
	metrics     *metrics.Metrics
	now         Clock
}

// TokenServiceOption is a function that configures a tokenService.
type TokenServiceOption func(*tokenService)

// WithClock overrides the clock used for signing, verification and store expiry checks.
func WithClock(clock Clock) TokenServiceOption {
	return func(s *tokenService) { s.now = clock }
}

// WithTokenMetrics records minted tokens and redemption outcomes.
func WithTokenMetrics(m *metrics.Metrics) TokenServiceOption {
	return func(s *tokenService) { s.metrics = m }
}

// NewTokenService creates the TokenAuthoritySvc. It fails with
// apperrors.ErrConfiguration when no signing secret is configured.
func NewTokenService(cfg TokenConfig, refreshRepo portsrepo.RefreshTokenRepository, userRepo portsrepo.UserReader, opts ...TokenServiceOption) (portssvc.TokenAuthoritySvc, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token signing secret is empty: %w", apperrors.ErrConfiguration)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive: %w", apperrors.ErrConfiguration)
	}
	s := &tokenService{
		cfg:         cfg,
		refreshRepo: refreshRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// sign returns a signed token of kind plus its id and expiry.
func (s *tokenService) sign(user *domain.User, kind domain.TokenKind, issuedAt time.Time, ttl time.Duration) (string, string, time.Time, error) {
	tokenID := uuid.NewString()
	expiresAt := issuedAt.Add(ttl)
	claims := utils.SessionClaims{
		Email: user.Email,
		Kind:  string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    s.cfg.Issuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := utils.GenerateJWT(claims, s.cfg.Secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	s.metrics.TokenMinted(string(kind))
	return signed, tokenID, expiresAt, nil
}

func (s *tokenService) MintPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	if user == nil || user.UserID == "" {
		return nil, fmt.Errorf("%w: cannot mint tokens without a user", apperrors.ErrValidation)
	}

	// JWT timestamps have second precision; keep the stored expiry in step.
	now := s.now().UTC().Truncate(time.Second)

	accessToken, _, accessExp, err := s.sign(user, domain.TokenKindAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshID, refreshExp, err := s.sign(user, domain.TokenKindRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	err = s.refreshRepo.Create(ctx, domain.IssuedRefreshToken{
		ID:        refreshID,
		UserID:    user.UserID,
		Token:     refreshToken,
		ExpiresAt: refreshExp,
		CreatedAt: now,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to persist refresh token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

func (s *tokenService) Verify(token string) (*domain.TokenClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", apperrors.ErrTokenInvalid)
	}
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.Secret, s.cfg.Issuer, s.now)
	if err != nil {
		if onlyExpired(err) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	kind := domain.TokenKind(claims.Kind)
	if kind != domain.TokenKindAccess && kind != domain.TokenKindRefresh {
		return nil, fmt.Errorf("%w: unknown token kind %q", apperrors.ErrTokenInvalid, claims.Kind)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", apperrors.ErrTokenInvalid)
	}

	out := &domain.TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Kind:    kind,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

// onlyExpired reports whether expiry is the sole validation failure. jwt/v5
// joins claim errors, so an expired token from another issuer matches both.
func onlyExpired(err error) bool {
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return false
	}
	for _, other := range []error{
		jwt.ErrTokenInvalidIssuer,
		jwt.ErrTokenInvalidAudience,
		jwt.ErrTokenInvalidSubject,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenRequiredClaimMissing,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenMalformed,
	} {
		if errors.Is(err, other) {
			return false
		}
	}
	return true
}

func (s *tokenService) VerifyAccessToken(token string) (string, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	if claims.Kind != domain.TokenKindAccess {
		return "", fmt.Errorf("%w: not an access token", apperrors.ErrTokenInvalid)
	}
	return claims.Subject, nil
}

func (s *tokenService) RedeemRefresh(ctx context.Context, token string) (pair *domain.TokenPair, err error) {
	defer func() {
		s.metrics.RefreshRedeemed(redemptionOutcome(err))
	}()

	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != domain.TokenKindRefresh {
		return nil, fmt.Errorf("%w: not a refresh token", apperrors.ErrTokenInvalid)
	}

	logger := s.GetLogger(ctx).With(
		slog.String("user_id", claims.Subject),
		slog.String("token_fp", utils.TokenFingerprint(token)),
	)

	stored, err := s.refreshRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Refresh token not on record")
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	// Missing, revoked and expired rows are indistinguishable to the caller.
	if !stored.IsRedeemable(s.now()) || stored.UserID != claims.Subject {
		logger.Warn("Refresh token not redeemable", slog.Bool("revoked", stored.Revoked))
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load refresh token owner: %w", err)
	}
	if !user.IsActive {
		logger.Warn("Refresh attempted for deactivated user")
		return nil, apperrors.ErrUserNotFound
	}

	revoked, err := s.refreshRepo.Revoke(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke redeemed refresh token: %w", err)
	}
	if !revoked {
		// Another redemption of the same token committed first.
		logger.Warn("Refresh token redeemed concurrently")
		return nil, apperrors.ErrTokenInvalid
	}

	return s.MintPair(ctx, user)
}

func (s *tokenService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	revoked, err := s.refreshRepo.RevokeByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if revoked {
		s.metrics.TokenRevoked()
	}
	s.LogDebug(ctx, "Refresh token revoke requested",
		slog.String("token_fp", utils.TokenFingerprint(token)),
		slog.Bool("revoked", revoked))
	return nil
}

func redemptionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperrors.ErrTokenExpired):
		return metrics.OutcomeExpired
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeFailure
	}
}
