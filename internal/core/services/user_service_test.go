package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/core/services"
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	db           *memDB
	userRepo     *memUserRepo
	identityRepo *memIdentityRepo
	service      portssvc.UserSvcFacade
	ctx          context.Context
	user         domain.User
}

func (s *UserServiceTestSuite) SetupTest() {
	s.db = newMemDB()
	s.userRepo = &memUserRepo{db: s.db}
	s.identityRepo = &memIdentityRepo{db: s.db}
	s.service = services.NewUserService(s.userRepo, s.identityRepo)
	s.ctx = context.Background()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.user = domain.User{
		UserID:       uuid.NewString(),
		Email:        "ada@example.com",
		PasswordHash: strPtr("$2a$04$hash"),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		IsActive:     true,
		Timestamps:   domain.Timestamps{CreatedAt: created, UpdatedAt: created},
	}
	s.userRepo.putUser(s.user)
}

func (s *UserServiceTestSuite) TestGetUserByID_Success() {
	user, err := s.service.GetUserByID(s.ctx, s.user.UserID)
	s.Require().NoError(err)
	s.Equal(s.user.Email, user.Email)
}

func (s *UserServiceTestSuite) TestGetUserByID_NotFound() {
	user, err := s.service.GetUserByID(s.ctx, uuid.NewString())
	s.Nil(user)
	s.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (s *UserServiceTestSuite) TestGetProfile_IncludesIdentitiesWithoutTokens() {
	linkedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s.identityRepo.putIdentity(domain.LinkedIdentity{
		ID:             uuid.NewString(),
		UserID:         s.user.UserID,
		Provider:       "google",
		ProviderID:     "g-1",
		ProviderTokens: domain.ProviderTokens{AccessToken: "secret-provider-token"},
		Timestamps:     domain.Timestamps{CreatedAt: linkedAt},
	})

	profile, err := s.service.GetProfile(s.ctx, s.user.UserID)
	s.Require().NoError(err)
	s.Equal(s.user.UserID, profile.UserID)
	s.Require().Len(profile.Identities, 1)
	s.Equal(domain.PublicLinkedIdentity{Provider: "google", ProviderID: "g-1", LinkedAt: linkedAt}, profile.Identities[0])
}

func (s *UserServiceTestSuite) TestGetProfile_NoIdentities() {
	profile, err := s.service.GetProfile(s.ctx, s.user.UserID)
	s.Require().NoError(err)
	s.NotNil(profile.Identities)
	s.Empty(profile.Identities)
}

func (s *UserServiceTestSuite) TestUpdateProfile_ChangesNamesAndPicture() {
	req := dto.UpdateProfileRequest{
		FirstName:      strPtr("Augusta"),
		ProfilePicture: strPtr("https://example.com/ada.png"),
	}

	user, err := s.service.UpdateProfile(s.ctx, s.user.UserID, req)
	s.Require().NoError(err)
	s.Equal("Augusta", user.FirstName)
	s.Equal("Lovelace", user.LastName)
	s.Require().NotNil(user.ProfilePicture)
	s.Equal("https://example.com/ada.png", *user.ProfilePicture)
	s.True(user.UpdatedAt.After(s.user.UpdatedAt))

	stored, err := s.userRepo.FindUserByID(s.ctx, s.user.UserID)
	s.Require().NoError(err)
	s.Equal("Augusta", stored.FirstName)
	s.Equal(s.user.Email, stored.Email)
	s.Equal(s.user.PasswordHash, stored.PasswordHash)
}

func (s *UserServiceTestSuite) TestUpdateProfile_NoChanges() {
	user, err := s.service.UpdateProfile(s.ctx, s.user.UserID, dto.UpdateProfileRequest{FirstName: strPtr("Ada")})
	s.Require().NoError(err)
	s.Equal(s.user.UpdatedAt, user.UpdatedAt)

	user, err = s.service.UpdateProfile(s.ctx, s.user.UserID, dto.UpdateProfileRequest{})
	s.Require().NoError(err)
	s.Equal(s.user.UpdatedAt, user.UpdatedAt)
}

func (s *UserServiceTestSuite) TestUpdateProfile_Validation() {
	_, err := s.service.UpdateProfile(s.ctx, s.user.UserID, dto.UpdateProfileRequest{ProfilePicture: strPtr("not a url")})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.UpdateProfile(s.ctx, s.user.UserID, dto.UpdateProfileRequest{LastName: strPtr("")})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *UserServiceTestSuite) TestUpdateProfile_NotFound() {
	_, err := s.service.UpdateProfile(s.ctx, uuid.NewString(), dto.UpdateProfileRequest{FirstName: strPtr("X")})
	s.ErrorIs(err, apperrors.ErrUserNotFound)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
