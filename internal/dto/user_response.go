package dto

import (
	"time"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

type UserResponse struct {
	UserID         string    `json:"userID"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToUserResponse(u domain.PublicUser) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}

type IdentityResponse struct {
	Provider   string    `json:"provider"`
	ProviderID string    `json:"providerID"`
	LinkedAt   time.Time `json:"linkedAt"`
}

// ProfileResponse is a user together with its linked identities.
type ProfileResponse struct {
	UserResponse
	Identities []IdentityResponse `json:"identities"`
}

// ToProfileResponse converts a domain.UserProfile to ProfileResponse DTO
func ToProfileResponse(p *domain.UserProfile) ProfileResponse {
	identities := make([]IdentityResponse, len(p.Identities))
	for i, id := range p.Identities {
		identities[i] = IdentityResponse{
			Provider:   id.Provider,
			ProviderID: id.ProviderID,
			LinkedAt:   id.LinkedAt,
		}
	}
	return ProfileResponse{
		UserResponse: ToUserResponse(p.PublicUser),
		Identities:   identities,
	}
}
