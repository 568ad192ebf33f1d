// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/velora/velora/internal/platform/apperr"
	"github.com/velora/velora/internal/platform/constants"
	"github.com/velora/velora/internal/platform/sec"
	"github.com/velora/velora/internal/platform/validate"
	"github.com/velora/velora/pkg/uuidv7"
)

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenManager   *TokenManager
	loginThrottle  LoginThrottleRepository
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenManager *TokenManager,
	loginThrottle LoginThrottleRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenManager:   tokenManager,
		loginThrottle:  loginThrottle,
		logger:         logger,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email     string
	Password  string
	Role      sec.UserRole
	FirstName string
	LastName  string
	Phone     string
}

// Register validates, hashes, and persists a brand new user account.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - A pointer to the newly created [*User].
//   - Returns [apperr.Conflict] if the email already exists.
//
// # Business Rules
//   - Emails must be unique (case-insensitive, stored lowercased).
//   - Role defaults to 'user' when absent.
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	// ── 1. Input Validation ───────────────────────────────────────────────

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Role == "" {
		input.Role = sec.RoleUser
	}

	validator := &validate.Validator{}
	validator.
		Required("email", email).
		Email("email", email).
		MaxLen("email", email, 100).
		Required("password", input.Password).
		Password("password", input.Password).
		Required("first_name", input.FirstName).
		Name("first_name", input.FirstName).
		MaxLen("first_name", input.FirstName, 50).
		Required("last_name", input.LastName).
		Name("last_name", input.LastName).
		MaxLen("last_name", input.LastName, 50).
		Custom("role", !input.Role.Valid(), "Must be one of: user, business")
	if input.Phone != "" {
		validator.Phone("phone", input.Phone)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("User already exists")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
	}

	// ── 5. Persistence ────────────────────────────────────────────────────

	// The unique index on email is the authoritative check; the earlier
	// lookup only gives a nicer fast path under no contention.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// Login validates user credentials and issues a token pair.
//
// # Returns
//   - [apperr.NotFound] if no account exists for the email.
//   - [apperr.Unauthorized] if the password does not match.
//   - [apperr.RateLimited] after too many failed attempts.
//
// # Error Surface
//
// Unknown email and wrong password are deliberately distinguishable (404 vs
// 401). The public registration endpoint already discloses which emails are
// taken, so a generic error here would cost UX without buying secrecy.
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// ── 1. Brute-Force Throttle ───────────────────────────────────────────

	// Fail open: a throttle outage must not take down login entirely.
	attempts, err := service.loginThrottle.Hit(context, email, constants.LoginAttemptWindow)
	if err != nil {
		service.logger.WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
	} else if attempts > constants.LoginMaxAttempts {
		return nil, apperr.RateLimited(int(constants.LoginAttemptWindow.Seconds()))
	}

	// ── 2. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	// ── 3. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect username or password")
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	pair, err := service.tokenManager.CreatePair(context, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issuance_failed: %w", err)
	}

	// Successful login clears the attempt counter.
	if err := service.loginThrottle.Reset(context, email); err != nil {
		service.logger.WarnContext(context, "login_throttle_reset_failed", slog.Any("error", err))
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &LoginSession{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		User:                  user,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token.
//
// # Flow
//  1. Verify the refresh token (signature, type, revocation record).
//  2. Re-read the account so the new access token carries the CURRENT role,
//     not whatever the role was when the refresh token was minted.
//  3. Issue a fresh access token. The refresh token itself is not rotated.
//
// All verification failures collapse to a generic [apperr.Unauthorized] for
// the client; the precise reason is logged server-side.
func (service *Service) Refresh(context context.Context, refreshToken string) (string, error) {
	// ── 1. Token Verification ─────────────────────────────────────────────

	claims, err := service.tokenManager.Verify(context, refreshToken, sec.TokenTypeRefresh)
	if err != nil {
		switch {
		case isTokenRejection(err):
			service.logger.InfoContext(context, "refresh_rejected", slog.String("reason", err.Error()))
			return "", apperr.Unauthorized("Invalid or expired refresh token")
		default:
			return "", fmt.Errorf("auth_service_refresh_verify_failed: %w", err)
		}
	}

	// ── 2. Re-Read Account ────────────────────────────────────────────────

	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		if apperr.IsNotFound(err) {
			// Account deleted since the token was issued. The cascade removed
			// its records, so this token can never verify again either way.
			return "", apperr.Unauthorized("Invalid or expired refresh token")
		}
		return "", err
	}

	// ── 3. Issue New Access Token ─────────────────────────────────────────

	accessToken, err := service.tokenManager.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return accessToken, nil
}

// Logout revokes the refresh token's revocation record.
//
// # Idempotency
//
// Logout never fails from the client's point of view: an invalid, expired,
// or already-revoked token still results in a logged-out client. Verification
// failures are logged and swallowed.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	claims, err := service.tokenManager.Verify(context, refreshToken, sec.TokenTypeRefresh)
	if err != nil {
		service.logger.InfoContext(context, "logout_with_invalid_token", slog.String("reason", err.Error()))
		return nil
	}

	if err := service.tokenManager.Revoke(context, claims.JTI()); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", claims.UserID()))
	return nil
}

// isTokenRejection reports whether the verification error is a client-side
// token problem rather than an infrastructure failure.
func isTokenRejection(err error) bool {
	switch {
	case errors.Is(err, sec.ErrTokenExpired),
		errors.Is(err, sec.ErrTokenMalformed),
		errors.Is(err, ErrWrongTokenType),
		errors.Is(err, ErrTokenRevoked):
		return true
	}
	return false
}
