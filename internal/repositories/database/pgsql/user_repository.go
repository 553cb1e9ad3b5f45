package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portsrepo "github.com/SscSPs/auth_session_service/internal/core/ports/repositories"
	"github.com/SscSPs/auth_session_service/internal/models"
	"github.com/SscSPs/auth_session_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const (
	selectUserFields = `u.id, u.email, u.password, u.first_name, u.last_name, u.profile_picture, u.is_active, u.created_at, u.updated_at`

	insertUserQuery = `
		INSERT INTO users (id, email, password, first_name, last_name, profile_picture, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	findUserByIDQuery = `
		SELECT ` + selectUserFields + `
		FROM users u
		WHERE u.id = $1
	`

	findUserByEmailQuery = `
		SELECT ` + selectUserFields + `
		FROM users u
		WHERE u.email = $1
	`

	findUserByProviderQuery = `
		SELECT ` + selectUserFields + `
		FROM social_accounts sa
		JOIN users u ON u.id = sa.user_id
		WHERE sa.provider = $1 AND sa.provider_id = $2
	`

	updateUserProfileQuery = `
		UPDATE users
		SET first_name = $1, last_name = $2, profile_picture = $3, updated_at = $4
		WHERE id = $5
	`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.FirstName,
		&m.LastName,
		&m.ProfilePicture,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

func insertUser(ctx context.Context, q querier, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := q.Exec(ctx, insertUserQuery,
		m.UserID,
		m.Email,
		m.PasswordHash,
		m.FirstName,
		m.LastName,
		m.ProfilePicture,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if err := insertUser(ctx, r.Pool, user); err != nil {
		return mapWriteError("save user", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, findUserByIDQuery, userID))
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("find user by ID %s", userID), err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.ErrNotFound
	}
	user, err := scanUser(r.Pool.QueryRow(ctx, findUserByEmailQuery, email))
	if err != nil {
		return nil, mapReadError("find user by email", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByProvider(ctx context.Context, provider, providerID string) (*domain.User, error) {
	user, err := scanUser(r.Pool.QueryRow(ctx, findUserByProviderQuery, provider, providerID))
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("find user by %s identity", provider), err)
	}
	return user, nil
}

func (r *PgxUserRepository) UpdateUserProfile(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	cmdTag, err := r.Pool.Exec(ctx, updateUserProfileQuery,
		m.FirstName,
		m.LastName,
		m.ProfilePicture,
		m.UpdatedAt,
		m.UserID,
	)
	if err != nil {
		return mapWriteError("update user profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}

// CreateUserWithIdentity inserts the user and its first social account in one transaction.
func (r *PgxUserRepository) CreateUserWithIdentity(ctx context.Context, user domain.User, identity domain.LinkedIdentity) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return mapWriteError("create user", err)
		}
		if err := insertSocialAccount(ctx, tx, identity); err != nil {
			return mapWriteError("create linked identity", err)
		}
		return nil
	})
}
