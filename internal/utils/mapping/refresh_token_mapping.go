package mapping

import (
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	"github.com/SscSPs/auth_session_service/internal/models"
)

// ToModelRefreshToken converts a domain IssuedRefreshToken to a model RefreshToken
func ToModelRefreshToken(d domain.IssuedRefreshToken) models.RefreshToken {
	return models.RefreshToken{
		ID:        d.ID,
		UserID:    d.UserID,
		Token:     d.Token,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
		Revoked:   d.Revoked,
	}
}

// ToDomainRefreshToken converts a model RefreshToken to a domain IssuedRefreshToken
func ToDomainRefreshToken(m models.RefreshToken) domain.IssuedRefreshToken {
	return domain.IssuedRefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		CreatedAt: m.CreatedAt,
	}
}
