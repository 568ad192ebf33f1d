// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora/velora/internal/platform/sec"
)

/*
newTestTokenService generates a fresh RSA keypair, writes it as PEM files
into a temporary directory, and builds a TokenService from those files.
*/
func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	privateBlock := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(privateBlock), 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicBlock := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	}
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(publicBlock), 0o600))

	service, err := sec.NewTokenService(privatePath, publicPath, "velora.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that a signed access token decodes back
to the original claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	signed, err := service.Encode(sec.AccessClaims("user-123", sec.RoleBusiness), time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := service.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, sec.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, sec.RoleBusiness, claims.Role)
	assert.Equal(t, "velora.test", claims.Issuer)
}

/*
TestTokenService_RefreshClaims verifies that refresh tokens carry the jti
and omit the role.
*/
func TestTokenService_RefreshClaims(t *testing.T) {
	service := newTestTokenService(t)

	signed, err := service.Encode(sec.RefreshClaims("user-123", "jti-abc"), time.Minute)
	require.NoError(t, err)

	claims, err := service.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, sec.TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, "jti-abc", claims.JTI())
	assert.Empty(t, claims.Role)
}

/*
TestTokenService_Expired verifies that a token past its exp decodes to
ErrTokenExpired rather than a generic failure.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t)

	signed, err := service.Encode(sec.AccessClaims("user-123", sec.RoleUser), -time.Minute)
	require.NoError(t, err)

	_, err = service.Decode(signed)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Malformed covers structural failures: garbage input,
truncated tokens, and tokens signed by a different key.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestTokenService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"truncated", "eyJhbGciOiJSUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Decode(tt.token)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}

	t.Run("wrong_key", func(t *testing.T) {
		other := newTestTokenService(t)
		signed, err := other.Encode(sec.AccessClaims("user-123", sec.RoleUser), time.Minute)
		require.NoError(t, err)

		_, err = service.Decode(signed)
		assert.ErrorIs(t, err, sec.ErrTokenMalformed)
	})
}

/*
TestHashPassword verifies the bcrypt round trip and rejection of a wrong
password.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.True(t, sec.CheckPasswordHash("s3cretpass", hash))
	assert.False(t, sec.CheckPasswordHash("wrongpass", hash))
}

/*
TestUserRole_AtLeast verifies the role hierarchy ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleBusiness.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleBusiness.AtLeast(sec.RoleBusiness))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleBusiness))
	assert.True(t, sec.RoleUser.Valid())
	assert.False(t, sec.UserRole("admin").Valid())
}
