// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// PostgreSQL implementation of the account storage contract.

package account

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora/velora/internal/platform/dberr"
	"github.com/velora/velora/internal/users/auth"
)

// The email unique index is the only constraint a client can trip here,
// and only by changing address to one already registered.
var accountDBErrors = dberr.Mapper{Resource: "User", Conflict: "Email is already registered"}

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Loaded account entity
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT id, email, password_hash, role, first_name, last_name, phone, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &auth.User{}
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
		return nil, accountDBErrors.Wrap(err, "postgres_account_repo_find_by_id_failed")
	}

	return user, nil
}

/*
Update persists changes to the account's mutable fields.

The email unique index may fire here when the user changes address; it maps
to apperr.Conflict like at registration.
*/
func (repository *PostgresAccountRepository) Update(ctx context.Context, user *auth.User) error {
	const query = `
		UPDATE users
		SET email = $2, password_hash = $3, role = $4, first_name = $5, last_name = $6, phone = $7, updated_at = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.UpdatedAt,
	)

	return accountDBErrors.Wrap(err, "postgres_account_repo_update_failed")
}

// Delete permanently removes an account row.
func (repository *PostgresAccountRepository) Delete(ctx context.Context, id string) error {
	const query = "DELETE FROM users WHERE id = $1"
	_, err := repository.pool.Exec(ctx, query, id)
	return accountDBErrors.Wrap(err, "postgres_account_repo_delete_failed")
}
