// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// Package business defines the business-profile entity and its use cases.
//
// A business profile is the public storefront page of an account holding the
// 'business' role. Each account owns at most one profile.
package business

import (
	"time"
)

// WorkingHours describes the opening window for a single weekday.
type WorkingHours struct {
	Day   string `json:"day"`   // Monday .. Sunday
	Open  string `json:"open"`  // "09:00"
	Close string `json:"close"` // "18:00"
}

// Profile represents the public page of a business account.
//
// # Rules
//   - UserID is unique: one profile per business account.
//   - Slug is derived from BusinessName at creation time.
//   - WorkingHours is stored as JSONB and may be empty.
type Profile struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	BusinessName string         `json:"business_name"`
	Slug         string         `json:"slug"`
	Description  string         `json:"description,omitempty"`
	Address      string         `json:"address,omitempty"`
	WorkingHours []WorkingHours `json:"working_hours,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// OwnedBy reports whether the profile belongs to the given account.
func (p *Profile) OwnedBy(userID string) bool {
	return p.UserID == userID
}
