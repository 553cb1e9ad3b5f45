package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	"github.com/SscSPs/auth_session_service/internal/models"
	"github.com/SscSPs/auth_session_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLinkedIdentityRepository struct {
	BaseRepository
}

func newPgxLinkedIdentityRepository(db *pgxpool.Pool) portsrepo.LinkedIdentityRepository {
	return &PgxLinkedIdentityRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.LinkedIdentityRepository = (*PgxLinkedIdentityRepository)(nil)

const (
	selectSocialAccountFields = `
		id, user_id, provider, provider_id, provider_access_token,
		provider_refresh_token, provider_token_expiry, created_at, updated_at
	`

	insertSocialAccountQuery = `
		INSERT INTO social_accounts (
			id, user_id, provider, provider_id, provider_access_token,
			provider_refresh_token, provider_token_expiry, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	findSocialAccountByProviderQuery = `
		SELECT ` + selectSocialAccountFields + `
		FROM social_accounts
		WHERE provider = $1 AND provider_id = $2
	`

	findSocialAccountByUserAndProviderQuery = `
		SELECT ` + selectSocialAccountFields + `
		FROM social_accounts
		WHERE user_id = $1 AND provider = $2
	`

	listSocialAccountsByUserQuery = `
		SELECT ` + selectSocialAccountFields + `
		FROM social_accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
)

func scanSocialAccount(row pgx.Row) (*models.SocialAccount, error) {
	var m models.SocialAccount
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Provider,
		&m.ProviderID,
		&m.ProviderAccessToken,
		&m.ProviderRefreshToken,
		&m.ProviderTokenExpiry,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func insertSocialAccount(ctx context.Context, q querier, identity domain.LinkedIdentity) error {
	m := mapping.ToModelSocialAccount(identity)
	_, err := q.Exec(ctx, insertSocialAccountQuery,
		m.ID,
		m.UserID,
		m.Provider,
		m.ProviderID,
		m.ProviderAccessToken,
		m.ProviderRefreshToken,
		m.ProviderTokenExpiry,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *PgxLinkedIdentityRepository) FindByProvider(ctx context.Context, provider, providerID string) (*domain.LinkedIdentity, error) {
	m, err := scanSocialAccount(r.Pool.QueryRow(ctx, findSocialAccountByProviderQuery, provider, providerID))
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("find %s identity", provider), err)
	}
	d := mapping.ToDomainLinkedIdentity(*m)
	return &d, nil
}

func (r *PgxLinkedIdentityRepository) FindByUserAndProvider(ctx context.Context, userID, provider string) (*domain.LinkedIdentity, error) {
	m, err := scanSocialAccount(r.Pool.QueryRow(ctx, findSocialAccountByUserAndProviderQuery, userID, provider))
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("find %s identity for user %s", provider, userID), err)
	}
	d := mapping.ToDomainLinkedIdentity(*m)
	return &d, nil
}

func (r *PgxLinkedIdentityRepository) ListByUserID(ctx context.Context, userID string) ([]domain.LinkedIdentity, error) {
	rows, err := r.Pool.Query(ctx, listSocialAccountsByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query identities for user %s: %w", userID, err)
	}
	defer rows.Close()

	ms := []models.SocialAccount{}
	for rows.Next() {
		m, err := scanSocialAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan identity row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identity rows: %w", err)
	}

	return mapping.ToDomainLinkedIdentitySlice(ms), nil
}

func (r *PgxLinkedIdentityRepository) Create(ctx context.Context, identity domain.LinkedIdentity) error {
	if err := insertSocialAccount(ctx, r.Pool, identity); err != nil {
		return mapWriteError("create linked identity", err)
	}
	return nil
}
