package domain

// User is the canonical local identity record.
type User struct {
	UserID         string  `json:"userID"` // Primary Key (UUID), immutable
	Email          string  `json:"email"`  // Unique; empty for provider accounts that did not disclose one
	PasswordHash   *string `json:"-"`      // Nil for accounts created through a provider only
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	IsActive       bool    `json:"isActive"`
	Timestamps
}

// HasPassword reports whether the account can be used for password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Public returns the outward representation of the user, without the password hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		UserID:         u.UserID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		Timestamps:     u.Timestamps,
	}
}

// PublicUser is a User stripped of credential material. It is the only user
// shape that crosses the session boundary.
type PublicUser struct {
	UserID         string  `json:"userID"`
	Email          string  `json:"email"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	IsActive       bool    `json:"isActive"`
	Timestamps
}

// UserProfile is a public user together with the identities linked to it.
type UserProfile struct {
	PublicUser
	Identities []PublicLinkedIdentity `json:"identities"`
}
