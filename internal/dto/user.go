package dto

// UpdateProfileRequest defines the data allowed for updating a user's profile.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url,max=2048"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateProfileRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.ProfilePicture == nil
}

// LinkIdentityRequest carries an authorization code for the provider being linked.
type LinkIdentityRequest struct {
	Code string `json:"code" binding:"required"`
}
