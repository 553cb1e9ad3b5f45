package mapping

import (
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	"github.com/SscSPs/auth_session_service/internal/models"
)

// ToModelAuditFields converts domain Timestamps to model AuditFields
func ToModelAuditFields(d domain.Timestamps) models.AuditFields {
	return models.AuditFields{
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainTimestamps converts model AuditFields to domain Timestamps
func ToDomainTimestamps(m models.AuditFields) domain.Timestamps {
	return domain.Timestamps{
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
