// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package business

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/velora/velora/internal/platform/apperr"
	"github.com/velora/velora/internal/platform/validate"
	"github.com/velora/velora/pkg/slug"
	"github.com/velora/velora/pkg/uuidv7"
)

// timeOfDay matches 24h clock values like "09:00" or "18:30".
var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// weekdays is the allowed set for WorkingHours.Day.
var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Service implements the business-profile use cases.
//
// # Authorization Model
//
// The HTTP layer guarantees every caller holds the 'business' role. The
// service enforces the finer rule: a profile may only be read or mutated
// by its owner. Non-owner access is a Forbidden, not a NotFound — the
// profile IDs are not secret.
type Service struct {
	profiles ProfileRepository
	logger   *slog.Logger
}

// NewService constructs a new business [Service].
func NewService(profiles ProfileRepository, logger *slog.Logger) *Service {
	return &Service{profiles: profiles, logger: logger}
}

// ProfileInput holds the caller-editable profile fields.
type ProfileInput struct {
	BusinessName string
	Description  string
	Address      string
	WorkingHours []WorkingHours
}

// validateInput applies the shared field rules for create and update.
func validateInput(input ProfileInput) error {
	validator := &validate.Validator{}
	validator.
		Required("business_name", input.BusinessName).
		MaxLen("business_name", input.BusinessName, 255).
		MaxLen("description", input.Description, 512).
		MaxLen("address", input.Address, 255)

	for index, window := range input.WorkingHours {
		prefix := fmt.Sprintf("working_hours[%d]", index)
		validator.
			OneOf(prefix+".day", window.Day, weekdays...).
			Custom(prefix+".open", !timeOfDay.MatchString(window.Open), "Must be a HH:MM time").
			Custom(prefix+".close", !timeOfDay.MatchString(window.Close), "Must be a HH:MM time")
	}

	return validator.Err()
}

// Create registers the caller's business profile.
//
// # Returns
//   - [apperr.Conflict] if the caller already has a profile.
func (service *Service) Create(context context.Context, ownerID string, input ProfileInput) (*Profile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// ── 1. One Profile Per Account ────────────────────────────────────────

	_, err := service.profiles.FindByUserID(context, ownerID)
	if err == nil {
		return nil, apperr.Conflict("User already has a business profile")
	}

	// ── 2. Entity Construction ────────────────────────────────────────────

	name := strings.TrimSpace(input.BusinessName)
	profile := &Profile{
		ID:           uuidv7.New(),
		UserID:       ownerID,
		BusinessName: name,
		Slug:         slug.From(name),
		Description:  strings.TrimSpace(input.Description),
		Address:      strings.TrimSpace(input.Address),
		WorkingHours: input.WorkingHours,
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	// The unique index on user_id is the authoritative duplicate check.
	if err := service.profiles.Create(context, profile); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "business_profile_created",
		slog.String("profile_id", profile.ID),
		slog.String("user_id", ownerID),
	)

	return profile, nil
}

// Get returns a profile the caller owns.
func (service *Service) Get(context context.Context, callerID, profileID string) (*Profile, error) {
	return service.loadOwned(context, callerID, profileID)
}

// Update replaces the editable fields of a profile the caller owns.
// The slug follows the business name.
func (service *Service) Update(context context.Context, callerID, profileID string, input ProfileInput) (*Profile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	profile, err := service.loadOwned(context, callerID, profileID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.BusinessName)
	profile.BusinessName = name
	profile.Slug = slug.From(name)
	profile.Description = strings.TrimSpace(input.Description)
	profile.Address = strings.TrimSpace(input.Address)
	profile.WorkingHours = input.WorkingHours

	if err := service.profiles.Update(context, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Delete permanently removes a profile the caller owns.
func (service *Service) Delete(context context.Context, callerID, profileID string) error {
	profile, err := service.loadOwned(context, callerID, profileID)
	if err != nil {
		return err
	}

	if err := service.profiles.Delete(context, profile.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "business_profile_deleted",
		slog.String("profile_id", profile.ID),
		slog.String("user_id", callerID),
	)

	return nil
}

// FindByUserID returns the profile owned by the given account, if any.
// Used by the account domain for the "my business profile" view.
func (service *Service) FindByUserID(context context.Context, userID string) (*Profile, error) {
	return service.profiles.FindByUserID(context, userID)
}

// loadOwned fetches a profile and enforces the ownership rule.
//
// The id is validated up front: a non-UUID value can never match a row, and
// rejecting it here keeps malformed input out of the uuid column comparison.
func (service *Service) loadOwned(context context.Context, callerID, profileID string) (*Profile, error) {
	validator := &validate.Validator{}
	if err := validator.UUID("id", profileID).Err(); err != nil {
		return nil, err
	}

	profile, err := service.profiles.FindByID(context, profileID)
	if err != nil {
		return nil, err
	}

	if !profile.OwnedBy(callerID) {
		return nil, apperr.Forbidden("You do not own this business profile")
	}

	return profile, nil
}
