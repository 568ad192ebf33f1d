// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velora/velora/internal/platform/apperr"
	"github.com/velora/velora/internal/platform/sec"
	"github.com/velora/velora/pkg/uuidv7"
)

// TokenCodec is the cryptographic boundary the manager builds on.
// Satisfied by [sec.TokenService].
type TokenCodec interface {
	Encode(claims sec.AuthClaims, timeToLive time.Duration) (string, error)
	Decode(tokenString string) (*sec.AuthClaims, error)
}

var (
	// ErrWrongTokenType is returned when a token decodes fine but is of the
	// other kind (access where refresh was expected, or vice versa).
	ErrWrongTokenType = errors.New("auth: wrong token type")

	// ErrTokenRevoked is returned when a refresh token has no backing record.
	ErrTokenRevoked = errors.New("auth: token has been revoked")
)

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// TokenManager owns the full token lifecycle: issuance, verification,
// and revocation.
//
// # Invariants
//
//   - A refresh token's revocation record is written BEFORE the signed
//     string is returned to any caller. A token that exists without a
//     record is revoked, never pending.
//   - Access token verification never touches storage.
//   - A missing record fails closed: the verifier cannot distinguish
//     "never issued" from "logged out" and treats both as revoked.
type TokenManager struct {
	codec         TokenCodec
	refreshTokens RefreshTokenRepository
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager constructs a [TokenManager].
func NewTokenManager(
	codec TokenCodec,
	refreshTokens RefreshTokenRepository,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *TokenManager {
	return &TokenManager{
		codec:         codec,
		refreshTokens: refreshTokens,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// CreateAccessToken issues a stateless access token for the user.
// No storage write happens here.
func (manager *TokenManager) CreateAccessToken(userID string, role sec.UserRole) (string, error) {
	signed, err := manager.codec.Encode(sec.AccessClaims(userID, role), manager.accessTTL)
	if err != nil {
		return "", fmt.Errorf("token_manager_access_encode_failed: %w", err)
	}
	return signed, nil
}

// CreateRefreshToken issues a refresh token and persists its revocation
// record. The record write happens before the token string is returned,
// so a token the caller holds is always verifiable.
func (manager *TokenManager) CreateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	jti := uuidv7.New()
	expiresAt := time.Now().Add(manager.refreshTTL)

	record := &RefreshToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := manager.refreshTokens.Put(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("token_manager_refresh_record_failed: %w", err)
	}

	signed, err := manager.codec.Encode(sec.RefreshClaims(userID, jti), manager.refreshTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token_manager_refresh_encode_failed: %w", err)
	}

	return signed, expiresAt, nil
}

// CreatePair issues a refresh/access token pair for a fresh login.
func (manager *TokenManager) CreatePair(ctx context.Context, userID string, role sec.UserRole) (*TokenPair, error) {
	refreshToken, expiresAt, err := manager.CreateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := manager.CreateAccessToken(userID, role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

// Verify decodes the token, checks it is of the expected type, and for
// refresh tokens consults the revocation record.
//
// # Returns
//   - [sec.ErrTokenExpired] if the signature is fine but the token is stale.
//   - [sec.ErrTokenMalformed] for structural or signature failures.
//   - [ErrWrongTokenType] if the token is of the other kind.
//   - [ErrTokenRevoked] if a refresh token has no backing record.
func (manager *TokenManager) Verify(ctx context.Context, token string, expected sec.TokenType) (*sec.AuthClaims, error) {
	claims, err := manager.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}

	// Access tokens are verified statelessly.
	if expected == sec.TokenTypeAccess {
		return claims, nil
	}

	// Refresh tokens must have a live revocation record.
	record, err := manager.refreshTokens.Get(ctx, claims.JTI())
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrTokenRevoked
		}
		return nil, fmt.Errorf("token_manager_record_lookup_failed: %w", err)
	}

	// The record outliving the JWT exp claim should not happen, but if the
	// stored expiry has passed, clean up lazily and report expiry.
	if record.Expired(time.Now()) {
		_ = manager.refreshTokens.Delete(ctx, claims.JTI())
		return nil, sec.ErrTokenExpired
	}

	return claims, nil
}

// Revoke deletes the revocation record for the given jti, permanently
// invalidating the refresh token. Idempotent.
func (manager *TokenManager) Revoke(ctx context.Context, jti string) error {
	if err := manager.refreshTokens.Delete(ctx, jti); err != nil {
		return fmt.Errorf("token_manager_revoke_failed: %w", err)
	}
	return nil
}

// RefreshTTL exposes the configured refresh token lifetime.
func (manager *TokenManager) RefreshTTL() time.Duration {
	return manager.refreshTTL
}
