package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/core/services"
	"github.com/SscSPs/auth_session_service/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type IdentityServiceTestSuite struct {
	suite.Suite
	db           *memDB
	userRepo     *memUserRepo
	identityRepo *memIdentityRepo
	metrics      *metrics.Metrics
	service      portssvc.IdentityResolverSvc
	ctx          context.Context
}

func (s *IdentityServiceTestSuite) SetupTest() {
	s.db = newMemDB()
	s.userRepo = &memUserRepo{db: s.db}
	s.identityRepo = &memIdentityRepo{db: s.db}
	s.metrics = metrics.NewMetrics(prometheus.NewRegistry())
	s.ctx = context.Background()
	s.service = services.NewIdentityService(s.userRepo, s.identityRepo,
		services.WithIdentityClock(newFakeClock().Now),
		services.WithIdentityMetrics(s.metrics),
	)
}

func (s *IdentityServiceTestSuite) seedUser(email string) domain.User {
	u := domain.User{UserID: uuid.NewString(), Email: email, FirstName: "Seed", IsActive: true}
	s.userRepo.putUser(u)
	return u
}

func (s *IdentityServiceTestSuite) seedIdentity(userID, provider, providerID string) domain.LinkedIdentity {
	li := domain.LinkedIdentity{
		ID:         uuid.NewString(),
		UserID:     userID,
		Provider:   provider,
		ProviderID: providerID,
		Timestamps: domain.Timestamps{CreatedAt: time.Now()},
	}
	s.identityRepo.putIdentity(li)
	return li
}

func googleProfile(sub, email string) domain.ProviderProfile {
	return domain.ProviderProfile{
		ProviderID: sub,
		Email:      email,
		FirstName:  "Grace",
		LastName:   "Hopper",
		Picture:    "https://example.com/grace.png",
		Tokens:     domain.ProviderTokens{AccessToken: "provider-access"},
	}
}

func (s *IdentityServiceTestSuite) TestResolveByProvider_NoLink() {
	user, err := s.service.ResolveByProvider(s.ctx, "google", "nobody")
	s.NoError(err)
	s.Nil(user)
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_CreatesUserAndIdentity() {
	user, err := s.service.ResolveOrCreate(s.ctx, "Google", googleProfile("g-1", "Grace@Example.com"))
	s.Require().NoError(err)
	s.Equal("grace@example.com", user.Email)
	s.Equal("Grace", user.FirstName)
	s.True(user.IsActive)
	s.False(user.HasPassword())
	s.Require().NotNil(user.ProfilePicture)

	linked, err := s.identityRepo.FindByProvider(s.ctx, "google", "g-1")
	s.Require().NoError(err)
	s.Equal(user.UserID, linked.UserID)
	s.Equal("provider-access", linked.AccessToken)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.UsersCreatedTotal.WithLabelValues("google")))
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_Idempotent() {
	first, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("g-1", "grace@example.com"))
	s.Require().NoError(err)
	second, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("g-1", "grace@example.com"))
	s.Require().NoError(err)

	s.Equal(first.UserID, second.UserID)
	s.Equal(1, s.db.userCount())
	s.Equal(1, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_EmptyEmailAllowed() {
	first, err := s.service.ResolveOrCreate(s.ctx, "facebook", googleProfile("fb-1", ""))
	s.Require().NoError(err)
	second, err := s.service.ResolveOrCreate(s.ctx, "facebook", googleProfile("fb-2", ""))
	s.Require().NoError(err)

	s.Empty(first.Email)
	s.NotEqual(first.UserID, second.UserID)
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_EmailBelongsToOtherAccount() {
	s.seedUser("grace@example.com")

	user, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("g-1", "GRACE@example.com"))
	s.Nil(user)
	s.ErrorIs(err, apperrors.ErrEmailAlreadyExists)
	s.Equal(1, s.db.userCount())
	s.Equal(0, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_NothingPersistedWhenInsertFails() {
	// The email is claimed after the pre-check but before the insert.
	s.userRepo.BeforeCreateWithIdentity = func(domain.User, domain.LinkedIdentity) {
		s.userRepo.BeforeCreateWithIdentity = nil
		s.seedUser("grace@example.com")
	}

	_, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("g-1", "grace@example.com"))
	s.ErrorIs(err, apperrors.ErrEmailAlreadyExists)
	s.Equal(1, s.db.userCount())
	s.Equal(0, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_ConcurrentFirstLoginReturnsWinner() {
	var winner domain.User
	s.userRepo.BeforeCreateWithIdentity = func(domain.User, domain.LinkedIdentity) {
		s.userRepo.BeforeCreateWithIdentity = nil
		winner = s.seedUser("")
		s.seedIdentity(winner.UserID, "google", "g-1")
	}

	user, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("g-1", ""))
	s.Require().NoError(err)
	s.Equal(winner.UserID, user.UserID)
	s.Equal(1, s.db.userCount())
	s.Equal(1, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_ConcurrentFirstLoginSameEmailReturnsWinner() {
	var winner domain.User
	s.userRepo.BeforeCreateWithIdentity = func(domain.User, domain.LinkedIdentity) {
		s.userRepo.BeforeCreateWithIdentity = nil
		winner = s.seedUser("grace@example.com")
		s.seedIdentity(winner.UserID, "google", "g-1")
	}

	user, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("g-1", "grace@example.com"))
	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.Equal(winner.UserID, user.UserID)
	s.Equal(1, s.db.userCount())
	s.Equal(1, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestResolveByProvider_IgnoresProviderCase() {
	user := s.seedUser("ada@example.com")
	s.seedIdentity(user.UserID, "google", "g-1")

	found, err := s.service.ResolveByProvider(s.ctx, "Google", "g-1")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(user.UserID, found.UserID)
}

func (s *IdentityServiceTestSuite) TestResolveOrCreate_RequiresProviderID() {
	_, err := s.service.ResolveOrCreate(s.ctx, "google", googleProfile("", "x@example.com"))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *IdentityServiceTestSuite) TestLinkAdditionalIdentity_Success() {
	user := s.seedUser("ada@example.com")

	err := s.service.LinkAdditionalIdentity(s.ctx, user.UserID, "google", "g-1", domain.ProviderTokens{AccessToken: "at"})
	s.Require().NoError(err)

	resolved, err := s.service.ResolveByProvider(s.ctx, "google", "g-1")
	s.Require().NoError(err)
	s.Equal(user.UserID, resolved.UserID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IdentitiesLinkTotal.WithLabelValues("google", metrics.OutcomeSuccess)))
}

func (s *IdentityServiceTestSuite) TestLinkAdditionalIdentity_UserNotFound() {
	err := s.service.LinkAdditionalIdentity(s.ctx, uuid.NewString(), "google", "g-1", domain.ProviderTokens{})
	s.ErrorIs(err, apperrors.ErrUserNotFound)
	s.Equal(0, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestLinkAdditionalIdentity_LinkedToOtherAccount() {
	owner := s.seedUser("owner@example.com")
	other := s.seedUser("other@example.com")
	s.seedIdentity(owner.UserID, "google", "g-1")

	err := s.service.LinkAdditionalIdentity(s.ctx, other.UserID, "google", "g-1", domain.ProviderTokens{})
	s.ErrorIs(err, apperrors.ErrAlreadyLinkedToOtherAccount)

	resolved, err := s.service.ResolveByProvider(s.ctx, "google", "g-1")
	s.Require().NoError(err)
	s.Equal(owner.UserID, resolved.UserID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IdentitiesLinkTotal.WithLabelValues("google", metrics.OutcomeFailure)))
}

func (s *IdentityServiceTestSuite) TestLinkAdditionalIdentity_SameLinkIsNoop() {
	user := s.seedUser("ada@example.com")
	s.seedIdentity(user.UserID, "google", "g-1")

	err := s.service.LinkAdditionalIdentity(s.ctx, user.UserID, "google", "g-1", domain.ProviderTokens{})
	s.NoError(err)
	s.Equal(1, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestLinkAdditionalIdentity_ProviderAlreadyLinked() {
	user := s.seedUser("ada@example.com")
	s.seedIdentity(user.UserID, "google", "g-1")

	err := s.service.LinkAdditionalIdentity(s.ctx, user.UserID, "google", "g-2", domain.ProviderTokens{})
	s.ErrorIs(err, apperrors.ErrProviderAlreadyLinked)
	s.Equal(1, s.db.identityCount())
}

func (s *IdentityServiceTestSuite) TestLinkAdditionalIdentity_RaceMapsStoreConflict() {
	user := s.seedUser("ada@example.com")
	rival := s.seedUser("rival@example.com")
	s.identityRepo.BeforeCreate = func(domain.LinkedIdentity) {
		s.identityRepo.BeforeCreate = nil
		s.seedIdentity(rival.UserID, "google", "g-1")
	}

	err := s.service.LinkAdditionalIdentity(s.ctx, user.UserID, "google", "g-1", domain.ProviderTokens{})
	s.ErrorIs(err, apperrors.ErrAlreadyLinkedToOtherAccount)
}

func TestIdentityService(t *testing.T) {
	suite.Run(t, new(IdentityServiceTestSuite))
}
