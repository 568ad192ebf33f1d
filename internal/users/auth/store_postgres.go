// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// PostgreSQL implementations of the auth storage contracts.
//
// # Error Mapping
//
// Driver errors are classified by [dberr.Mapper] so that callers only ever
// see [apperr.AppError] values or wrapped internal failures.

package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora/velora/internal/platform/dberr"
)

var (
	userDBErrors = dberr.Mapper{Resource: "User", Conflict: "User already exists"}

	// jti values are UUIDv7; a unique violation here means a broken
	// generator, not a client error, so no Conflict message is configured.
	refreshTokenDBErrors = dberr.Mapper{Resource: "Refresh token"}
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the users table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - user: The user entity to persist.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, role, first_name, last_name, phone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return userDBErrors.Wrap(err, "postgres_user_repo_create_failed")
}

// FindByEmail retrieves a user record by their unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, password_hash, role, first_name, last_name, phone, created_at, updated_at
		FROM users
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, userDBErrors.Wrap(err, "postgres_user_repo_find_by_email_failed")
	}

	return user, nil
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, password_hash, role, first_name, last_name, phone, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, userDBErrors.Wrap(err, "postgres_user_repo_find_by_id_failed")
	}

	return user, nil
}

// ── Refresh Token Repository ─────────────────────────────────────────────────

// PostgresRefreshTokenRepository implements the RefreshTokenRepository interface.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates a new PostgreSQL implementation of RefreshTokenRepository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

// Put persists a new revocation record into the refresh_tokens table.
func (repository *PostgresRefreshTokenRepository) Put(ctx context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (jti, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		token.JTI,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)

	return refreshTokenDBErrors.Wrap(err, "postgres_refresh_token_repo_put_failed")
}

// Get retrieves a revocation record by its jti.
func (repository *PostgresRefreshTokenRepository) Get(ctx context.Context, jti string) (*RefreshToken, error) {
	const query = `
		SELECT jti, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE jti = $1`

	token := &RefreshToken{}
	err := repository.pool.QueryRow(ctx, query, jti).Scan(
		&token.JTI,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)

	if err != nil {
		return nil, refreshTokenDBErrors.Wrap(err, "postgres_refresh_token_repo_get_failed")
	}

	return token, nil
}

// Delete removes a revocation record by its jti. Idempotent.
func (repository *PostgresRefreshTokenRepository) Delete(ctx context.Context, jti string) error {
	const query = "DELETE FROM refresh_tokens WHERE jti = $1"
	_, err := repository.pool.Exec(ctx, query, jti)
	return refreshTokenDBErrors.Wrap(err, "postgres_refresh_token_repo_delete_failed")
}
