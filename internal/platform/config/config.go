package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	// Session tokens
	JWTSecret                  string
	JWTIssuer                  string
	JWTExpiryDuration          time.Duration
	RefreshTokenExpiryDuration time.Duration
	BcryptCost                 int

	// OAuth state
	RedisURL      string
	OAuthStateTTL time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	FacebookClientID     string `mapstructure:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `mapstructure:"FACEBOOK_CLIENT_SECRET"`
	FacebookRedirectURL  string `mapstructure:"FACEBOOK_REDIRECT_URL"`

	OIDCProviderName string `mapstructure:"OIDC_PROVIDER_NAME"`
	OIDCIssuerURL    string `mapstructure:"OIDC_ISSUER_URL"`
	OIDCClientID     string `mapstructure:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `mapstructure:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `mapstructure:"OIDC_REDIRECT_URL"`

	FrontendBaseURL    string   `mapstructure:"FRONTEND_BASE_URL"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LoginRateLimit     string   `mapstructure:"LOGIN_RATE_LIMIT"`

	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`
}

// GoogleEnabled reports whether all Google OAuth settings are present.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// FacebookEnabled reports whether all Facebook OAuth settings are present.
func (c *Config) FacebookEnabled() bool {
	return c.FacebookClientID != "" && c.FacebookClientSecret != "" && c.FacebookRedirectURL != ""
}

// OIDCEnabled reports whether a generic OIDC provider is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuerURL != "" && c.OIDCClientID != "" && c.OIDCRedirectURL != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
// It fails with apperrors.ErrConfiguration when JWT_SECRET is absent.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return loadFromViper(viper.New())
}

func loadFromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "auth-session-service")
	v.SetDefault("JWT_ACCESS_EXPIRATION", "1h")
	v.SetDefault("JWT_REFRESH_EXPIRATION", "7d")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("OAUTH_STATE_TTL", "10m")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FACEBOOK_CLIENT_ID", "")
	v.SetDefault("FACEBOOK_CLIENT_SECRET", "")
	v.SetDefault("FACEBOOK_REDIRECT_URL", "")
	v.SetDefault("OIDC_PROVIDER_NAME", "oidc")
	v.SetDefault("OIDC_ISSUER_URL", "")
	v.SetDefault("OIDC_CLIENT_ID", "")
	v.SetDefault("OIDC_CLIENT_SECRET", "")
	v.SetDefault("OIDC_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")

	v.AutomaticEnv()

	cfg := &Config{}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set: %w", apperrors.ErrConfiguration)
	}

	accessTTL, err := parseDurationSetting(v, "JWT_ACCESS_EXPIRATION")
	if err != nil {
		return nil, err
	}
	refreshTTL, err := parseDurationSetting(v, "JWT_REFRESH_EXPIRATION")
	if err != nil {
		return nil, err
	}
	if refreshTTL <= accessTTL {
		log.Printf("Warning: JWT_REFRESH_EXPIRATION (%s) is not longer than JWT_ACCESS_EXPIRATION (%s).\n", refreshTTL, accessTTL)
	}
	stateTTL, err := parseDurationSetting(v, "OAUTH_STATE_TTL")
	if err != nil {
		return nil, err
	}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	cfg.JWTExpiryDuration = accessTTL
	cfg.RefreshTokenExpiryDuration = refreshTTL
	cfg.BcryptCost = v.GetInt("BCRYPT_COST")

	cfg.RedisURL = v.GetString("REDIS_URL")
	cfg.OAuthStateTTL = stateTTL

	cfg.GoogleClientID = v.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = v.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = v.GetString("GOOGLE_REDIRECT_URL")
	if !cfg.GoogleEnabled() {
		log.Println("Warning: Google OAuth settings incomplete. Google login will not function.")
	}

	cfg.FacebookClientID = v.GetString("FACEBOOK_CLIENT_ID")
	cfg.FacebookClientSecret = v.GetString("FACEBOOK_CLIENT_SECRET")
	cfg.FacebookRedirectURL = v.GetString("FACEBOOK_REDIRECT_URL")

	cfg.OIDCProviderName = strings.ToLower(v.GetString("OIDC_PROVIDER_NAME"))
	cfg.OIDCIssuerURL = v.GetString("OIDC_ISSUER_URL")
	cfg.OIDCClientID = v.GetString("OIDC_CLIENT_ID")
	cfg.OIDCClientSecret = v.GetString("OIDC_CLIENT_SECRET")
	cfg.OIDCRedirectURL = v.GetString("OIDC_REDIRECT_URL")

	cfg.FrontendBaseURL = strings.TrimRight(v.GetString("FRONTEND_BASE_URL"), "/")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 && cfg.FrontendBaseURL != "" {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendBaseURL}
	}
	cfg.LoginRateLimit = v.GetString("LOGIN_RATE_LIMIT")

	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = v.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

func parseDurationSetting(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := utils.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %v: %w", key, raw, err, apperrors.ErrConfiguration)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive: %w", key, apperrors.ErrConfiguration)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
