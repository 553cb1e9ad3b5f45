package config

import (
	"testing"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := loadFromViper(viper.New())
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := loadFromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.Equal(t, 10*time.Minute, cfg.OAuthStateTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ACCESS_EXPIRATION", "15m")
	t.Setenv("JWT_REFRESH_EXPIRATION", "2w")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OIDC_PROVIDER_NAME", "LinkedIn")

	cfg, err := loadFromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "linkedin", cfg.OIDCProviderName)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_REFRESH_EXPIRATION", "forever")

	_, err := loadFromViper(viper.New())
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestLoadConfig_FacebookEnabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("FACEBOOK_CLIENT_ID", "fb-id")
	t.Setenv("FACEBOOK_CLIENT_SECRET", "fb-secret")

	cfg, err := loadFromViper(viper.New())
	require.NoError(t, err)
	assert.False(t, cfg.FacebookEnabled(), "redirect URL is still missing")

	t.Setenv("FACEBOOK_REDIRECT_URL", "http://localhost:8080/api/v1/auth/facebook/callback")
	cfg, err = loadFromViper(viper.New())
	require.NoError(t, err)
	assert.True(t, cfg.FacebookEnabled())
	assert.Equal(t, "fb-id", cfg.FacebookClientID)
}
