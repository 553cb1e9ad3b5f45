package domain

import "time"

// TokenKind distinguishes access tokens from refresh tokens inside the signed payload.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the decoded payload of a verified token.
type TokenClaims struct {
	Subject   string    // user id
	Email     string
	Kind      TokenKind
	TokenID   string // jti
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is a freshly minted access/refresh pair.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// AuthResponse is what a successful register or login returns to the caller.
type AuthResponse struct {
	User PublicUser `json:"user"`
	TokenPair
}
