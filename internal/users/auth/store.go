// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Velora is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns [apperr.Conflict] if the email unique constraint fails.
	Create(ctx context.Context, user *User) error
}

// RefreshTokenRepository defines the contract for refresh-token revocation records.
//
// # Domain Ownership
//
// This is kept alongside [UserRepository] because refresh tokens are owned
// entirely by the users' domain, despite serving authentication security.
type RefreshTokenRepository interface {
	// Put persists the revocation record for a freshly issued refresh token.
	// The record must exist before the signed token is handed to a client.
	Put(ctx context.Context, token *RefreshToken) error

	// Get returns the record with the given jti.
	//
	// Returns [apperr.NotFound] if the record is absent, which callers must
	// treat as "token revoked".
	Get(ctx context.Context, jti string) (*RefreshToken, error)

	// Delete removes the record with the given jti, revoking the token.
	// Deleting an absent record is not an error.
	Delete(ctx context.Context, jti string) error
}

// LoginThrottleRepository tracks failed login attempts per account for
// brute-force protection. Backed by Redis so counters expire on their own.
type LoginThrottleRepository interface {
	// Hit increments the attempt counter for the key and returns the new
	// count. The counter expires after the window elapses.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)

	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, key string) error
}
