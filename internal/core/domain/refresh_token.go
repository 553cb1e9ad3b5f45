package domain

import "time"

// IssuedRefreshToken records a refresh token minted by the token authority.
// Revocation is one-way: once Revoked is true the record never becomes redeemable again.
type IssuedRefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userID"`
	Token     string    `json:"-"` // The signed refresh token string
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired reports whether the stored expiry is at or before now.
func (t *IssuedRefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsRedeemable reports whether the record can still be exchanged for a new pair.
func (t *IssuedRefreshToken) IsRedeemable(now time.Time) bool {
	return !t.Revoked && !t.IsExpired(now)
}
