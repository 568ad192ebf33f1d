// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/velora/velora/internal/platform/middleware"
	"github.com/velora/velora/internal/platform/sec"
)

// stubVerifier resolves a fixed set of token strings to claims.
type stubVerifier struct {
	tokens map[string]*sec.AuthClaims
}

func (v *stubVerifier) Verify(_ context.Context, token string, _ sec.TokenType) (*sec.AuthClaims, error) {
	claims, ok := v.tokens[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

func claimsFor(userID string, role sec.UserRole) *sec.AuthClaims {
	claims := sec.AccessClaims(userID, role)
	return &claims
}

// newAuthzRouter mounts one open, one authenticated, and one role-gated
// route behind the full Authenticate chain.
func newAuthzRouter(verifier middleware.TokenVerifier) http.Handler {
	ok := func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(verifier))
	router.Get("/open", ok)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", ok)
	})

	router.Group(func(gated chi.Router) {
		gated.Use(middleware.RequireRole(sec.RoleBusiness))
		gated.Get("/business", ok)
	})

	return router
}

/* TestAuthz_Chain walks the Authenticate / RequireAuth / RequireRole chain
with anonymous, malformed, user-role, and business-role credentials. */
func TestAuthz_Chain(t *testing.T) {
	verifier := &stubVerifier{tokens: map[string]*sec.AuthClaims{
		"user-token":     claimsFor("user-1", sec.RoleUser),
		"business-token": claimsFor("user-2", sec.RoleBusiness),
	}}
	router := newAuthzRouter(verifier)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"anonymous_open_route", "/open", "", http.StatusOK},
		{"anonymous_protected_route", "/me", "", http.StatusUnauthorized},
		{"malformed_header", "/me", "Token abc", http.StatusUnauthorized},
		{"garbage_token", "/me", "Bearer garbage", http.StatusUnauthorized},
		{"valid_user_protected", "/me", "Bearer user-token", http.StatusOK},
		{"user_role_on_business_route", "/business", "Bearer user-token", http.StatusForbidden},
		{"business_role_on_business_route", "/business", "Bearer business-token", http.StatusOK},
		{"anonymous_business_route", "/business", "", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authHeader != "" {
				request.Header.Set("Authorization", tc.authHeader)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

/* TestGetUser verifies the nil contract for anonymous contexts. */
func TestGetUser(t *testing.T) {
	assert.Nil(t, middleware.GetUser(context.Background()))
}
