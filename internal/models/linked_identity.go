package models

import "time"

// SocialAccount is the row shape of the social_accounts table.
type SocialAccount struct {
	ID                   string     `db:"id"`
	UserID               string     `db:"user_id"`
	Provider             string     `db:"provider"`
	ProviderID           string     `db:"provider_id"`
	ProviderAccessToken  string     `db:"provider_access_token"`
	ProviderRefreshToken *string    `db:"provider_refresh_token"`
	ProviderTokenExpiry  *time.Time `db:"provider_token_expiry"`
	AuditFields
}
