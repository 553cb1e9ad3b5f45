package handlers_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockSessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockSessionService) LoginViaProvider(ctx context.Context, provider string, profile domain.ProviderProfile) (*domain.User, error) {
	args := m.Called(ctx, provider, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockSessionService) IssueSessionFor(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}
func (m *MockSessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}
func (m *MockSessionService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}
func (m *MockSessionService) VerifyAccessToken(ctx context.Context, accessToken string) (string, error) {
	args := m.Called(ctx, accessToken)
	return args.String(0), args.Error(1)
}
func (m *MockSessionService) LinkIdentity(ctx context.Context, userID, provider string, profile domain.ProviderProfile) error {
	args := m.Called(ctx, userID, provider, profile)
	return args.Error(0)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock OAuth provider ---
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) AuthCodeURL(state string) string {
	return "https://idp.example.com/authorize?state=" + state
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*domain.ProviderProfile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderProfile), args.Error(1)
}

var _ portssvc.OAuthProviderSvc = (*MockProvider)(nil)

// memStateStore is a single-use state store keyed by state value.
type memStateStore struct {
	mu     sync.Mutex
	next   int
	issued map[string]string
}

func newMemStateStore() *memStateStore {
	return &memStateStore{issued: make(map[string]string)}
}

func (s *memStateStore) Issue(_ context.Context, provider string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	state := "state-" + strings.Repeat("x", s.next)
	s.issued[state] = provider
	return state, nil
}

func (s *memStateStore) Consume(_ context.Context, state, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.issued[state]
	if !ok || owner != provider {
		return apperrors.ErrInvalidOAuthState
	}
	delete(s.issued, state)
	return nil
}

var _ portssvc.OAuthStateStore = (*memStateStore)(nil)

var errBoom = errors.New("boom")
