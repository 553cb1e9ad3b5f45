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
	"github.com/SscSPs/auth_session_service/internal/platform/metrics"
	"github.com/google/uuid"
)

type identityService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	identityRepo portsrepo.LinkedIdentityRepository
	metrics      *metrics.Metrics
	now          Clock
}

// IdentityServiceOption is a function that configures an identityService.
type IdentityServiceOption func(*identityService)

// WithIdentityClock overrides the clock used for record timestamps.
func WithIdentityClock(clock Clock) IdentityServiceOption {
	return func(s *identityService) { s.now = clock }
}

// WithIdentityMetrics records user creation and link outcomes.
func WithIdentityMetrics(m *metrics.Metrics) IdentityServiceOption {
	return func(s *identityService) { s.metrics = m }
}

// NewIdentityService creates the IdentityResolverSvc.
func NewIdentityService(userRepo portsrepo.UserRepositoryFacade, identityRepo portsrepo.LinkedIdentityRepository, opts ...IdentityServiceOption) portssvc.IdentityResolverSvc {
	s := &identityService{
		userRepo:     userRepo,
		identityRepo: identityRepo,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *identityService) ResolveByProvider(ctx context.Context, provider, providerID string) (*domain.User, error) {
	provider = strings.ToLower(provider)
	user, err := s.userRepo.FindUserByProvider(ctx, provider, providerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve %s identity: %w", provider, err)
	}
	return user, nil
}

func (s *identityService) ResolveOrCreate(ctx context.Context, provider string, profile domain.ProviderProfile) (*domain.User, error) {
	provider = strings.ToLower(provider)
	if provider == "" || profile.ProviderID == "" {
		return nil, fmt.Errorf("%w: provider and provider id are required", apperrors.ErrValidation)
	}

	existing, err := s.ResolveByProvider(ctx, provider, profile.ProviderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email != "" {
		_, err := s.userRepo.FindUserByEmail(ctx, email)
		if err == nil {
			s.LogWarn(ctx, "Provider login email belongs to another account",
				slog.String("provider", provider))
			return nil, apperrors.ErrEmailAlreadyExists
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email for %s login: %w", provider, err)
		}
	}

	now := s.now().UTC()
	user := domain.User{
		UserID:     uuid.NewString(),
		Email:      email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		IsActive:   true,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if profile.Picture != "" {
		pic := profile.Picture
		user.ProfilePicture = &pic
	}
	identity := domain.LinkedIdentity{
		ID:             uuid.NewString(),
		UserID:         user.UserID,
		Provider:       provider,
		ProviderID:     profile.ProviderID,
		ProviderTokens: profile.Tokens,
		Timestamps:     domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	err = s.userRepo.CreateUserWithIdentity(ctx, user, identity)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrAlreadyLinkedToOtherAccount):
		// A concurrent first login created the identity first; return its user.
		winner, rerr := s.ResolveByProvider(ctx, provider, profile.ProviderID)
		if rerr != nil {
			return nil, rerr
		}
		if winner == nil {
			return nil, fmt.Errorf("identity conflict without owner for %s: %w", provider, err)
		}
		return winner, nil
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		// The users row is inserted first, so a concurrent first login with the
		// same email surfaces here rather than as an identity conflict.
		winner, rerr := s.ResolveByProvider(ctx, provider, profile.ProviderID)
		if rerr != nil {
			return nil, rerr
		}
		if winner != nil {
			return winner, nil
		}
		return nil, apperrors.ErrEmailAlreadyExists
	default:
		s.LogError(ctx, err, "Failed to create user for provider identity", slog.String("provider", provider))
		return nil, fmt.Errorf("failed to create user for %s identity: %w", provider, err)
	}

	s.metrics.UserCreated(provider)
	s.LogInfo(ctx, "Created user from provider identity",
		slog.String("provider", provider),
		slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *identityService) LinkAdditionalIdentity(ctx context.Context, userID, provider, providerID string, tokens domain.ProviderTokens) (err error) {
	provider = strings.ToLower(provider)
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		s.metrics.IdentityLinked(provider, outcome)
	}()

	if userID == "" || provider == "" || providerID == "" {
		return fmt.Errorf("%w: user id, provider and provider id are required", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	owner, err := s.identityRepo.FindByProvider(ctx, provider, providerID)
	switch {
	case err == nil && owner.UserID != userID:
		return apperrors.ErrAlreadyLinkedToOtherAccount
	case err == nil:
		// Same (user, provider, providerID) already linked.
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("failed to look up %s identity: %w", provider, err)
	}

	if _, err := s.identityRepo.FindByUserAndProvider(ctx, userID, provider); err == nil {
		return apperrors.ErrProviderAlreadyLinked
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up %s identity for user: %w", provider, err)
	}

	now := s.now().UTC()
	err = s.identityRepo.Create(ctx, domain.LinkedIdentity{
		ID:             uuid.NewString(),
		UserID:         userID,
		Provider:       provider,
		ProviderID:     providerID,
		ProviderTokens: tokens,
		Timestamps:     domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrAlreadyLinkedToOtherAccount):
		// Lost a race; the identity now exists. Decide by owner.
		if winner, ferr := s.identityRepo.FindByProvider(ctx, provider, providerID); ferr == nil && winner.UserID == userID {
			return nil
		}
		return apperrors.ErrAlreadyLinkedToOtherAccount
	case errors.Is(err, apperrors.ErrProviderAlreadyLinked):
		return apperrors.ErrProviderAlreadyLinked
	default:
		return fmt.Errorf("failed to link %s identity: %w", provider, err)
	}

	s.LogInfo(ctx, "Linked provider identity",
		slog.String("provider", provider),
		slog.String("user_id", userID))
	return nil
}
