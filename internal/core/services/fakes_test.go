package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

// memDB is an in-memory stand-in for the relational store. It enforces the
// same uniqueness rules as the schema so service invariants can be tested
// without Postgres.
type memDB struct {
	mu         sync.Mutex
	users      map[string]domain.User
	identities map[string]domain.LinkedIdentity
	refresh    map[string]domain.IssuedRefreshToken
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[string]domain.User{},
		identities: map[string]domain.LinkedIdentity{},
		refresh:    map[string]domain.IssuedRefreshToken{},
	}
}

func (db *memDB) emailTakenLocked(email string) bool {
	if email == "" {
		return false
	}
	for _, u := range db.users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (db *memDB) identityConflictLocked(identity domain.LinkedIdentity) error {
	for _, li := range db.identities {
		if li.Provider == identity.Provider && li.ProviderID == identity.ProviderID {
			return fmt.Errorf("insert social account: %w; %w", apperrors.ErrDuplicate, apperrors.ErrAlreadyLinkedToOtherAccount)
		}
		if li.UserID == identity.UserID && li.Provider == identity.Provider {
			return fmt.Errorf("insert social account: %w; %w", apperrors.ErrDuplicate, apperrors.ErrProviderAlreadyLinked)
		}
	}
	return nil
}

func (db *memDB) userCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users)
}

func (db *memDB) identityCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.identities)
}

func (db *memDB) refreshRows() []domain.IssuedRefreshToken {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.IssuedRefreshToken, 0, len(db.refresh))
	for _, rt := range db.refresh {
		out = append(out, rt)
	}
	return out
}

// memUserRepo implements repositories.UserRepositoryFacade.
type memUserRepo struct {
	db *memDB

	// Hooks run before the default behaviour; a non-nil error is returned as is.
	SaveUserFn               func(ctx context.Context, user domain.User) error
	BeforeCreateWithIdentity func(user domain.User, identity domain.LinkedIdentity)
}

func (r *memUserRepo) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return &u, nil
}

func (r *memUserRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if email != "" && u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
}

func (r *memUserRepo) FindUserByProvider(_ context.Context, provider, providerID string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, li := range r.db.identities {
		if li.Provider == provider && li.ProviderID == providerID {
			if u, ok := r.db.users[li.UserID]; ok {
				return &u, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) SaveUser(ctx context.Context, user domain.User) error {
	if r.SaveUserFn != nil {
		if err := r.SaveUserFn(ctx, user); err != nil {
			return err
		}
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.emailTakenLocked(user.Email) {
		return fmt.Errorf("insert user: %w; %w", apperrors.ErrDuplicate, apperrors.ErrEmailAlreadyExists)
	}
	r.db.users[user.UserID] = user
	return nil
}

func (r *memUserRepo) UpdateUserProfile(_ context.Context, user domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.users[user.UserID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.ProfilePicture = user.ProfilePicture
	existing.UpdatedAt = user.UpdatedAt
	r.db.users[user.UserID] = existing
	return nil
}

func (r *memUserRepo) CreateUserWithIdentity(_ context.Context, user domain.User, identity domain.LinkedIdentity) error {
	if r.BeforeCreateWithIdentity != nil {
		r.BeforeCreateWithIdentity(user, identity)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.emailTakenLocked(user.Email) {
		return fmt.Errorf("create user: %w; %w", apperrors.ErrDuplicate, apperrors.ErrEmailAlreadyExists)
	}
	if err := r.db.identityConflictLocked(identity); err != nil {
		return err
	}
	r.db.users[user.UserID] = user
	r.db.identities[identity.ID] = identity
	return nil
}

// putUser seeds a user directly.
func (r *memUserRepo) putUser(user domain.User) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[user.UserID] = user
}

// memIdentityRepo implements repositories.LinkedIdentityRepository.
type memIdentityRepo struct {
	db *memDB

	BeforeCreate func(identity domain.LinkedIdentity)
}

func (r *memIdentityRepo) FindByProvider(_ context.Context, provider, providerID string) (*domain.LinkedIdentity, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, li := range r.db.identities {
		if li.Provider == provider && li.ProviderID == providerID {
			return &li, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memIdentityRepo) FindByUserAndProvider(_ context.Context, userID, provider string) (*domain.LinkedIdentity, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, li := range r.db.identities {
		if li.UserID == userID && li.Provider == provider {
			return &li, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memIdentityRepo) ListByUserID(_ context.Context, userID string) ([]domain.LinkedIdentity, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.LinkedIdentity
	for _, li := range r.db.identities {
		if li.UserID == userID {
			out = append(out, li)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memIdentityRepo) Create(_ context.Context, identity domain.LinkedIdentity) error {
	if r.BeforeCreate != nil {
		r.BeforeCreate(identity)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.identityConflictLocked(identity); err != nil {
		return err
	}
	r.db.identities[identity.ID] = identity
	return nil
}

// putIdentity seeds an identity directly.
func (r *memIdentityRepo) putIdentity(identity domain.LinkedIdentity) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.identities[identity.ID] = identity
}

// memRefreshRepo implements repositories.RefreshTokenRepository.
type memRefreshRepo struct {
	db *memDB

	BeforeRevoke func(id string)
}

func (r *memRefreshRepo) Create(_ context.Context, token domain.IssuedRefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rt := range r.db.refresh {
		if rt.Token == token.Token {
			return fmt.Errorf("insert refresh token: %w", apperrors.ErrDuplicate)
		}
	}
	r.db.refresh[token.ID] = token
	return nil
}

func (r *memRefreshRepo) FindByToken(_ context.Context, token string) (*domain.IssuedRefreshToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rt := range r.db.refresh {
		if rt.Token == token {
			return &rt, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memRefreshRepo) Revoke(_ context.Context, id string) (bool, error) {
	if r.BeforeRevoke != nil {
		r.BeforeRevoke(id)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rt, ok := r.db.refresh[id]
	if !ok || rt.Revoked {
		return false, nil
	}
	rt.Revoked = true
	r.db.refresh[id] = rt
	return true, nil
}

func (r *memRefreshRepo) RevokeByToken(ctx context.Context, token string) (bool, error) {
	found, err := r.FindByToken(ctx, token)
	if err != nil {
		return false, nil
	}
	return r.Revoke(ctx, found.ID)
}

// setRevoked flips the flag directly, bypassing hooks.
func (r *memRefreshRepo) setRevoked(id string) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rt := r.db.refresh[id]
	rt.Revoked = true
	r.db.refresh[id] = rt
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func strPtr(s string) *string { return &s }
