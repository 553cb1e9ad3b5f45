package mapping

import (
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	"github.com/SscSPs/auth_session_service/internal/models"
)

// ToModelUser converts a domain User to a model User.
// An empty email is stored as NULL.
func ToModelUser(d domain.User) models.User {
	var email *string
	if d.Email != "" {
		e := d.Email
		email = &e
	}
	return models.User{
		UserID:         d.UserID,
		Email:          email,
		PasswordHash:   d.PasswordHash,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		ProfilePicture: d.ProfilePicture,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.Timestamps),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	var email string
	if m.Email != nil {
		email = *m.Email
	}
	return domain.User{
		UserID:         m.UserID,
		Email:          email,
		PasswordHash:   m.PasswordHash,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		ProfilePicture: m.ProfilePicture,
		IsActive:       m.IsActive,
		Timestamps:     ToDomainTimestamps(m.AuditFields),
	}
}
