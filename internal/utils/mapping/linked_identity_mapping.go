package mapping

import (
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	"github.com/SscSPs/auth_session_service/internal/models"
)

// ToModelSocialAccount converts a domain LinkedIdentity to a model SocialAccount
func ToModelSocialAccount(d domain.LinkedIdentity) models.SocialAccount {
	return models.SocialAccount{
		ID:                   d.ID,
		UserID:               d.UserID,
		Provider:             d.Provider,
		ProviderID:           d.ProviderID,
		ProviderAccessToken:  d.AccessToken,
		ProviderRefreshToken: d.RefreshToken,
		ProviderTokenExpiry:  d.TokenExpiry,
		AuditFields:          ToModelAuditFields(d.Timestamps),
	}
}

// ToDomainLinkedIdentity converts a model SocialAccount to a domain LinkedIdentity
func ToDomainLinkedIdentity(m models.SocialAccount) domain.LinkedIdentity {
	return domain.LinkedIdentity{
		ID:         m.ID,
		UserID:     m.UserID,
		Provider:   m.Provider,
		ProviderID: m.ProviderID,
		ProviderTokens: domain.ProviderTokens{
			AccessToken:  m.ProviderAccessToken,
			RefreshToken: m.ProviderRefreshToken,
			TokenExpiry:  m.ProviderTokenExpiry,
		},
		Timestamps: ToDomainTimestamps(m.AuditFields),
	}
}

// ToDomainLinkedIdentitySlice converts a slice of model SocialAccounts to domain LinkedIdentities
func ToDomainLinkedIdentitySlice(ms []models.SocialAccount) []domain.LinkedIdentity {
	ds := make([]domain.LinkedIdentity, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLinkedIdentity(m)
	}
	return ds
}
