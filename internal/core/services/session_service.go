package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/SscSPs/auth_session_service/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// sessionService composes the credential verifier, identity resolver and token
// authority into the operations the transport layer calls.
type sessionService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	credentials portssvc.CredentialVerifierSvc
	identities  portssvc.IdentityResolverSvc
	tokens      portssvc.TokenAuthoritySvc
	validate    *validator.Validate
	metrics     *metrics.Metrics
	now         Clock
}

// SessionServiceOption is a function that configures a sessionService.
type SessionServiceOption func(*sessionService)

// WithSessionClock overrides the clock used for new user timestamps.
func WithSessionClock(clock Clock) SessionServiceOption {
	return func(s *sessionService) { s.now = clock }
}

// WithSessionMetrics records login attempts and password sign-ups.
func WithSessionMetrics(m *metrics.Metrics) SessionServiceOption {
	return func(s *sessionService) { s.metrics = m }
}

// NewSessionService creates the SessionSvcFacade.
func NewSessionService(
	userRepo portsrepo.UserRepositoryFacade,
	credentials portssvc.CredentialVerifierSvc,
	identities portssvc.IdentityResolverSvc,
	tokens portssvc.TokenAuthoritySvc,
	opts ...SessionServiceOption,
) portssvc.SessionSvcFacade {
	s := &sessionService{
		userRepo:    userRepo,
		credentials: credentials,
		identities:  identities,
		tokens:      tokens,
		validate:    newRequestValidator(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newRequestValidator reads the same `binding` tags gin uses on request DTOs.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// validationError turns validator output into an ErrValidation naming the failing fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, "; "))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *sessionService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	_, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password during registration")
		return nil, err
	}

	now := s.now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		PasswordHash: &hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		s.LogError(ctx, err, "Failed to save registered user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.UserCreated("password")
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *sessionService) Login(ctx context.Context, email, password string) (user *domain.User, err error) {
	defer func() { s.recordLogin("password", err) }()

	user, err = s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}
	if !user.HasPassword() || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	ok, err := s.credentials.VerifyPassword(*user.PasswordHash, password)
	if err != nil {
		s.LogError(ctx, err, "Stored password hash is unusable", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *sessionService) LoginViaProvider(ctx context.Context, provider string, profile domain.ProviderProfile) (user *domain.User, err error) {
	provider = strings.ToLower(provider)
	defer func() { s.recordLogin(provider, err) }()

	user, err = s.identities.ResolveOrCreate(ctx, provider, profile)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *sessionService) IssueSessionFor(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	pair, err := s.tokens.MintPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{User: user.Public(), TokenPair: *pair}, nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.tokens.RedeemRefresh(ctx, refreshToken)
}

func (s *sessionService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *sessionService) VerifyAccessToken(_ context.Context, accessToken string) (string, error) {
	return s.tokens.VerifyAccessToken(accessToken)
}

func (s *sessionService) LinkIdentity(ctx context.Context, userID, provider string, profile domain.ProviderProfile) error {
	return s.identities.LinkAdditionalIdentity(ctx, userID, provider, profile.ProviderID, profile.Tokens)
}

func (s *sessionService) recordLogin(method string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.LoginAttempt(method, outcome)
}
