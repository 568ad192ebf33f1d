// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

/*
Package account handles self-service management of the authenticated user's
own record.

It provides functionalities for users to view and update their private
identity data and to delete their account.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Deletion: Account removal is a hard delete; the database cascades to
    business profiles and refresh-token records, which forcibly signs the
    account out everywhere.
*/
package account

import (
	"context"

	"github.com/velora/velora/internal/business"
	"github.com/velora/velora/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable fields of an existing user, including
		email, role, and password hash.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: apperr.Conflict on email collision, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes an account row. The schema cascades the
		delete to business profiles and refresh-token records.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error
}

// BusinessProfileReader exposes the read side of the business domain needed
// for the "my business profile" view.
type BusinessProfileReader interface {
	// FindByUserID returns the business profile owned by the given account.
	//
	// Returns [apperr.NotFound] if the account has no profile.
	FindByUserID(context context.Context, userID string) (*business.Profile, error)
}
