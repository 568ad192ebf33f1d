// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package business

import (
	"context"
)

// ProfileRepository defines the data access contract for business profiles.
//
// # Implementations
//
// The canonical implementation for Velora is PostgreSQL (store_postgres.go).
type ProfileRepository interface {
	// Create persists a brand-new profile.
	//
	// Returns [apperr.Conflict] if the owner already has a profile.
	Create(ctx context.Context, profile *Profile) error

	// FindByID returns the profile with the given ID.
	//
	// Returns [apperr.NotFound] if the profile does not exist.
	FindByID(ctx context.Context, id string) (*Profile, error)

	// FindByUserID returns the profile owned by the given account.
	//
	// Returns [apperr.NotFound] if the account has no profile.
	FindByUserID(ctx context.Context, userID string) (*Profile, error)

	// Update persists changes to the profile's mutable fields.
	Update(ctx context.Context, profile *Profile) error

	// Delete permanently removes the profile.
	Delete(ctx context.Context, id string) error
}
