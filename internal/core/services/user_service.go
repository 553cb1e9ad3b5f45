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
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/go-playground/validator/v10"
)

type userService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	identityRepo portsrepo.LinkedIdentityRepository
	validate     *validator.Validate
	now          Clock
}

// NewUserService creates the UserSvcFacade.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, identityRepo portsrepo.LinkedIdentityRepository) portssvc.UserSvcFacade {
	return &userService{
		userRepo:     userRepo,
		identityRepo: identityRepo,
		validate:     newRequestValidator(),
		now:          time.Now,
	}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	identities, err := s.identityRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked identities: %w", err)
	}

	profile := &domain.UserProfile{
		PublicUser: user.Public(),
		Identities: make([]domain.PublicLinkedIdentity, 0, len(identities)),
	}
	for i := range identities {
		profile.Identities = append(profile.Identities, identities[i].Public())
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return user, nil
	}

	changed := false
	if req.FirstName != nil && *req.FirstName != user.FirstName {
		user.FirstName = *req.FirstName
		changed = true
	}
	if req.LastName != nil && *req.LastName != user.LastName {
		user.LastName = *req.LastName
		changed = true
	}
	if req.ProfilePicture != nil && (user.ProfilePicture == nil || *req.ProfilePicture != *user.ProfilePicture) {
		pic := *req.ProfilePicture
		user.ProfilePicture = &pic
		changed = true
	}
	if !changed {
		return user, nil
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.UpdateUserProfile(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.LogError(ctx, err, "Failed to update user profile", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	s.LogInfo(ctx, "User profile updated", slog.String("user_id", userID))
	return user, nil
}
