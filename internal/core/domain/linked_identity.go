package domain

import "time"

// Provider names with built-in claim normalizers.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderLinkedIn = "linkedin"
	ProviderOIDC     = "oidc"
)

// LinkedIdentity binds a (provider, provider-assigned id) pair to exactly one user.
type LinkedIdentity struct {
	ID         string `json:"id"`
	UserID     string `json:"userID"`
	Provider   string `json:"provider"`
	ProviderID string `json:"providerID"`
	ProviderTokens
	Timestamps
}

// ProviderTokens are the opaque credentials a provider issued during the handshake.
// They are stored for later provider API calls and never interpreted here.
type ProviderTokens struct {
	AccessToken  string     `json:"-"`
	RefreshToken *string    `json:"-"`
	TokenExpiry  *time.Time `json:"-"`
}

// Public returns the identity without provider tokens.
func (li *LinkedIdentity) Public() PublicLinkedIdentity {
	return PublicLinkedIdentity{
		Provider:   li.Provider,
		ProviderID: li.ProviderID,
		LinkedAt:   li.CreatedAt,
	}
}

// PublicLinkedIdentity is the client-facing view of a linked identity.
type PublicLinkedIdentity struct {
	Provider   string    `json:"provider"`
	ProviderID string    `json:"providerID"`
	LinkedAt   time.Time `json:"linkedAt"`
}

// ProviderProfile is the normalized result of a verified provider login: who the
// provider says the user is, plus the tokens the provider handed out.
type ProviderProfile struct {
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
	Picture    string
	Tokens     ProviderTokens
}
