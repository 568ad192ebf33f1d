// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. The [TokenService] is a pure codec: it signs and verifies
// claim sets and never consults any store. Liveness of refresh tokens is a
// domain concern handled above this layer.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Types

// TokenType discriminates the two kinds of tokens the platform issues.
type TokenType string

const (
	// TokenTypeAccess marks short-lived bearer tokens verified statelessly.
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh marks long-lived tokens backed by a revocation record.
	TokenTypeRefresh TokenType = "refresh"
)

// # Codec Errors

var (
	// ErrTokenExpired is returned when the token's exp claim is in the past.
	ErrTokenExpired = errors.New("sec: token has expired")

	// ErrTokenMalformed is returned for any structural or signature failure.
	ErrTokenMalformed = errors.New("sec: token is malformed")
)

// AuthClaims represents the payload embedded inside a signed token.
//
// # Claim Asymmetry
//
// Access tokens carry the Role so middleware can gate endpoints WITHOUT a
// database lookup on every request. Refresh tokens deliberately omit it:
// their lifetime is long enough for a role to go stale, so the role is
// always re-read from storage at refresh time. Refresh tokens instead carry
// a jti (RegisteredClaims.ID) keying their server-side revocation record.
type AuthClaims struct {
	jwt.RegisteredClaims

	TokenType TokenType `json:"type"`
	Role      UserRole  `json:"role,omitempty"`
}

// UserID returns the subject of the token (the account UUID).
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// JTI returns the unique token identifier of a refresh token.
// It is empty for access tokens.
func (c *AuthClaims) JTI() string {
	return c.ID
}

// AccessClaims builds the claim set for a new access token.
func AccessClaims(userID string, role UserRole) AuthClaims {
	return AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		TokenType:        TokenTypeAccess,
		Role:             role,
	}
}

// RefreshClaims builds the claim set for a new refresh token.
func RefreshClaims(userID, jti string) AuthClaims {
	return AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID, ID: jti},
		TokenType:        TokenTypeRefresh,
	}
}

// # Codec

// TokenService handles generation and verification of JWT tokens using RS256.
//
// # Why asymmetric?
//
// The private key signs, the public key verifies. A future read-only verifier
// (gateway, sibling service) can be handed the public key alone without ever
// gaining the ability to mint tokens.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}, nil
}

// Encode merges the caller claims with issuer and timestamp claims
// (iat = now, exp = now + ttl) and returns the signed compact string.
func (service *TokenService) Encode(claims AuthClaims, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims.Issuer = service.issuer
	claims.IssuedAt = jwt.NewNumericDate(currentTime)
	claims.ExpiresAt = jwt.NewNumericDate(currentTime.Add(timeToLive))

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode checks the signature and validity of a JWT string.
//
// It distinguishes exactly two failure kinds: [ErrTokenExpired] when the
// signature is fine but the token is past its exp, and [ErrTokenMalformed]
// for everything else (bad signature, wrong algorithm, garbled structure).
// No store is consulted — this is a pure cryptographic + structural check.
func (service *TokenService) Decode(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
