package dto

import (
	"time"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

// AuthResponse represents the response for a successful register or login.
type AuthResponse struct {
	User                  UserResponse `json:"user"`
	AccessToken           string       `json:"accessToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshToken          string       `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time    `json:"refreshTokenExpiresAt"`
}

// TokenPairResponse represents the response for a successful token refresh.
type TokenPairResponse struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// ToTokenPairResponse converts a domain.TokenPair to its response DTO.
func ToTokenPairResponse(p *domain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:           p.AccessToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshToken:          p.RefreshToken,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
	}
}

// ToAuthResponse converts a domain.AuthResponse to its response DTO.
func ToAuthResponse(r *domain.AuthResponse) AuthResponse {
	return AuthResponse{
		User:                  ToUserResponse(r.User),
		AccessToken:           r.AccessToken,
		AccessTokenExpiresAt:  r.AccessTokenExpiresAt,
		RefreshToken:          r.RefreshToken,
		RefreshTokenExpiresAt: r.RefreshTokenExpiresAt,
	}
}
