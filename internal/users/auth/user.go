// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// Package auth defines the account entity and the session-authentication
// use cases of the Velora platform.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"time"

	"github.com/velora/velora/internal/platform/sec"
)

// User represents a registered account on the Velora platform.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via Bcrypt exclusively via the auth Service.
//   - Role is either "user" or "business"; it gates the business-profile API.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Phone        string       `json:"phone,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// RefreshToken is the server-side record backing an issued refresh token.
//
// # Security Concept
//
// Access Tokens (JWT) are stateless and cannot be revoked before they expire.
// To mitigate this, Velora uses short-lived JWTs paired with long-lived refresh
// tokens whose jti is recorded here. A refresh token is only honored while its
// record exists: deleting the record (logout) revokes the token instantly,
// even though the JWT signature remains valid.
type RefreshToken struct {
	JTI       string    `json:"jti"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record has passed its expiry timestamp.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
