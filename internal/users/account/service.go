// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/velora/velora/internal/business"
	"github.com/velora/velora/internal/platform/sec"
	"github.com/velora/velora/internal/platform/validate"
	"github.com/velora/velora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for self-service account management.
type Service struct {
	accountRepository AccountRepository
	businessProfiles  BusinessProfileReader
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	businessProfiles BusinessProfileReader,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		businessProfiles:  businessProfiles,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user account fields.
// Nil pointers leave the current value untouched.
type UpdateProfileInput struct {
	Email     *string
	Password  *string
	Role      *sec.UserRole
	FirstName *string
	LastName  *string
	Phone     *string
}

/*
UpdateProfile applies a partial set of changes to a user's account.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. A new password is hashed
before it touches the entity.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Validation, conflict, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	// ── 1. Field Validation ───────────────────────────────────────────────

	validator := &validate.Validator{}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
		validator.Required("email", email).Email("email", email).MaxLen("email", email, 100)
	}
	if input.Password != nil {
		validator.Password("password", *input.Password)
	}
	if input.Role != nil {
		validator.Custom("role", !input.Role.Valid(), "Must be one of: user, business")
	}
	if input.FirstName != nil {
		validator.Required("first_name", *input.FirstName).Name("first_name", *input.FirstName).MaxLen("first_name", *input.FirstName, 50)
	}
	if input.LastName != nil {
		validator.Required("last_name", *input.LastName).Name("last_name", *input.LastName).MaxLen("last_name", *input.LastName, 50)
	}
	if input.Phone != nil && *input.Phone != "" {
		validator.Phone("phone", *input.Phone)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Load Current State ─────────────────────────────────────────────

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// ── 3. Apply Delta Updates ────────────────────────────────────────────

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
DeleteAccount permanently removes a user account.

Description: The row delete cascades to the account's business profile and
refresh-token records, so every outstanding session dies with the account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accountRepository.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.WarnContext(context, "user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Business Profile View

/*
GetBusinessProfile returns the business profile owned by the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *business.Profile: The owned profile
  - error: apperr.NotFound if the account has no profile
*/
func (service *Service) GetBusinessProfile(context context.Context, userID string) (*business.Profile, error) {
	return service.businessProfiles.FindByUserID(context, userID)
}
