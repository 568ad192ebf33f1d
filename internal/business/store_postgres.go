// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// PostgreSQL implementation of the business-profile storage contract.

package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora/velora/internal/platform/dberr"
)

// The user_id unique index enforces the one-profile-per-account rule.
var profileDBErrors = dberr.Mapper{Resource: "Business profile", Conflict: "User already has a business profile"}

// PostgresProfileRepository implements the ProfileRepository interface using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL implementation of ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Create persists a new profile record into the business_profiles table.
func (repository *PostgresProfileRepository) Create(ctx context.Context, profile *Profile) error {
	const query = `
		INSERT INTO business_profiles (
			id, user_id, business_name, slug, description, address, working_hours, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	hours, err := marshalWorkingHours(profile.WorkingHours)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.BusinessName,
		profile.Slug,
		profile.Description,
		profile.Address,
		hours,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return profileDBErrors.Wrap(err, "postgres_profile_repo_create_failed")
}

// FindByID retrieves a profile record by its unique ID.
func (repository *PostgresProfileRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	const query = `
		SELECT id, user_id, business_name, slug, description, address, working_hours, created_at, updated_at
		FROM business_profiles
		WHERE id = $1`

	return repository.scanOne(ctx, query, id)
}

// FindByUserID retrieves the profile owned by the given account.
func (repository *PostgresProfileRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	const query = `
		SELECT id, user_id, business_name, slug, description, address, working_hours, created_at, updated_at
		FROM business_profiles
		WHERE user_id = $1`

	return repository.scanOne(ctx, query, userID)
}

// Update persists changes to a profile's mutable fields.
func (repository *PostgresProfileRepository) Update(ctx context.Context, profile *Profile) error {
	const query = `
		UPDATE business_profiles
		SET business_name = $2, slug = $3, description = $4, address = $5, working_hours = $6, updated_at = $7
		WHERE id = $1`

	profile.UpdatedAt = time.Now()

	hours, err := marshalWorkingHours(profile.WorkingHours)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(ctx, query,
		profile.ID,
		profile.BusinessName,
		profile.Slug,
		profile.Description,
		profile.Address,
		hours,
		profile.UpdatedAt,
	)

	return profileDBErrors.Wrap(err, "postgres_profile_repo_update_failed")
}

// Delete permanently removes a profile by its ID.
func (repository *PostgresProfileRepository) Delete(ctx context.Context, id string) error {
	const query = "DELETE FROM business_profiles WHERE id = $1"
	_, err := repository.pool.Exec(ctx, query, id)
	return profileDBErrors.Wrap(err, "postgres_profile_repo_delete_failed")
}

// scanOne runs a single-row query and maps the result onto a Profile.
func (repository *PostgresProfileRepository) scanOne(ctx context.Context, query string, arg any) (*Profile, error) {
	profile := &Profile{}
	var hours []byte

	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.BusinessName,
		&profile.Slug,
		&profile.Description,
		&profile.Address,
		&hours,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		return nil, profileDBErrors.Wrap(err, "postgres_profile_repo_find_failed")
	}

	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &profile.WorkingHours); err != nil {
			return nil, fmt.Errorf("postgres_profile_repo_hours_decode_failed: %w", err)
		}
	}

	return profile, nil
}

// marshalWorkingHours serializes the schedule into the JSONB column value.
// An empty schedule is stored as SQL NULL rather than an empty array.
func marshalWorkingHours(hours []WorkingHours) (any, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(hours)
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_hours_encode_failed: %w", err)
	}
	return data, nil
}
