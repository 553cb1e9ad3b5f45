// Package oauthstate keeps the CSRF state values of in-flight OAuth redirects in Redis.
package oauthstate

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix       = "oauth_state:"
	DefaultStateTTL = 10 * time.Minute
)

// RedisStateStore issues single-use state values bound to one provider.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses redisURL and verifies the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisStateStore creates a store. A non-positive ttl uses DefaultStateTTL.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &RedisStateStore{client: client, ttl: ttl}
}

// Issue generates a random state for provider and stores it until it is consumed or expires.
func (s *RedisStateStore) Issue(ctx context.Context, provider string) (string, error) {
	state, err := utils.NewOpaqueToken(utils.OAuthStateBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+state, provider, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return state, nil
}

// Consume atomically deletes state. It fails with apperrors.ErrInvalidOAuthState
// when the state is unknown, expired, already used or was issued for another provider.
func (s *RedisStateStore) Consume(ctx context.Context, state, provider string) error {
	if state == "" {
		return apperrors.ErrInvalidOAuthState
	}
	stored, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if err == redis.Nil {
		return apperrors.ErrInvalidOAuthState
	} else if err != nil {
		return fmt.Errorf("failed to read oauth state: %w", err)
	}
	if stored != provider {
		return fmt.Errorf("state issued for %q, used for %q: %w", stored, provider, apperrors.ErrInvalidOAuthState)
	}
	return nil
}
