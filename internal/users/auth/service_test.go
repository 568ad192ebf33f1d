// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora/velora/internal/platform/apperr"
	"github.com/velora/velora/internal/platform/sec"
	"github.com/velora/velora/internal/users/auth"
)

// memoryUserRepo is an in-memory UserRepository for tests.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by ID
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*auth.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *memoryUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *memoryUserRepo) setRole(id string, role sec.UserRole) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.Role = role
	}
}

// memoryThrottle is an in-memory LoginThrottleRepository for tests.
type memoryThrottle struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryThrottle() *memoryThrottle {
	return &memoryThrottle{counts: make(map[string]int64)}
}

func (t *memoryThrottle) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[key]++
	return t.counts[key], nil
}

func (t *memoryThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, key)
	return nil
}

/*
newTestService wires a fully in-memory auth service around a real codec.
*/
func newTestService(t *testing.T) (*auth.Service, *memoryUserRepo, *memoryRefreshTokenRepo) {
	t.Helper()

	users := newMemoryUserRepo()
	refreshTokens := newMemoryRefreshTokenRepo()
	manager := auth.NewTokenManager(newTestCodec(t), refreshTokens, 15*time.Minute, 24*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := auth.NewService(users, manager, newMemoryThrottle(), logger)
	return service, users, refreshTokens
}

func registerTestUser(t *testing.T, service *auth.Service, email string, role sec.UserRole) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Email:     email,
		Password:  "sup3rsecret",
		Role:      role,
		FirstName: "Alice",
		LastName:  "Nguyen",
	})
	require.NoError(t, err)
	return user
}

/*
TestService_Register covers successful enrollment and the duplicate-email
conflict.
*/
func TestService_Register(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	user := registerTestUser(t, service, "alice@example.com", sec.RoleUser)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "sup3rsecret", user.PasswordHash)

	// Same email again, case-insensitively.
	_, err := service.Register(ctx, auth.RegisterInput{
		Email:     "ALICE@example.com",
		Password:  "sup3rsecret",
		FirstName: "Alice",
		LastName:  "Nguyen",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_Register_Validation checks that invalid input never reaches
persistence.
*/
func TestService_Register_Validation(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"bad_email", auth.RegisterInput{Email: "nope", Password: "sup3rsecret", FirstName: "A", LastName: "B"}},
		{"weak_password", auth.RegisterInput{Email: "a@b.com", Password: "short", FirstName: "A", LastName: "B"}},
		{"digits_in_name", auth.RegisterInput{Email: "a@b.com", Password: "sup3rsecret", FirstName: "A1", LastName: "B"}},
		{"bad_role", auth.RegisterInput{Email: "a@b.com", Password: "sup3rsecret", FirstName: "A", LastName: "B", Role: "admin"}},
		{"bad_phone", auth.RegisterInput{Email: "a@b.com", Password: "sup3rsecret", FirstName: "A", LastName: "B", Phone: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestService_Login_ErrorSplit verifies that unknown email and wrong password
surface as distinct errors (404 vs 401).
*/
func TestService_Login_ErrorSplit(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	registerTestUser(t, service, "alice@example.com", sec.RoleUser)

	// Unknown email → NotFound
	_, err := service.Login(ctx, auth.LoginInput{Email: "ghost@example.com", Password: "whatever1"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	// Known email, wrong password → Unauthorized
	_, err = service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "wrongpass1"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// Correct credentials → session with both tokens
	session, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "alice@example.com", session.User.Email)
}

/*
TestService_Login_Throttle verifies that repeated failures trip the
rate limit and a successful login resets the counter.
*/
func TestService_Login_Throttle(t *testing.T) {
	users := newMemoryUserRepo()
	refreshTokens := newMemoryRefreshTokenRepo()
	manager := auth.NewTokenManager(newTestCodec(t), refreshTokens, 15*time.Minute, 24*time.Hour)
	throttle := newMemoryThrottle()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(users, manager, throttle, logger)

	ctx := context.Background()
	registerTestUser(t, service, "alice@example.com", sec.RoleUser)

	// Exhaust the attempt budget with bad passwords.
	for i := 0; i < 10; i++ {
		_, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "wrongpass1"})
		require.Error(t, err)
	}

	_, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "RATE_LIMITED", ae.Code)

	// After the counter clears, login works and resets the budget.
	require.NoError(t, throttle.Reset(ctx, "alice@example.com"))
	_, err = service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)
}

/*
TestService_Refresh_RoleReread verifies the new access token carries the
account's current role, not the role at refresh-token mint time.
*/
func TestService_Refresh_RoleReread(t *testing.T) {
	ctx := context.Background()
	codec := newTestCodec(t)
	users := newMemoryUserRepo()
	manager := auth.NewTokenManager(codec, newMemoryRefreshTokenRepo(), 15*time.Minute, 24*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := auth.NewService(users, manager, newMemoryThrottle(), logger)

	user := registerTestUser(t, service, "alice@example.com", sec.RoleUser)
	session, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	// Role changes while the refresh token is outstanding.
	users.setRole(user.ID, sec.RoleBusiness)

	accessToken, err := service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)

	claims, err := codec.Decode(accessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleBusiness, claims.Role)
}

/*
TestService_Refresh_Rejections covers revoked tokens, wrong token kind,
and deleted accounts — all collapse to a generic Unauthorized.
*/
func TestService_Refresh_Rejections(t *testing.T) {
	service, users, _ := newTestService(t)
	ctx := context.Background()

	user := registerTestUser(t, service, "alice@example.com", sec.RoleUser)
	session, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	t.Run("access_token_as_refresh", func(t *testing.T) {
		_, err := service.Refresh(ctx, session.AccessToken)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := service.Refresh(ctx, "garbage")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("after_logout", func(t *testing.T) {
		require.NoError(t, service.Logout(ctx, session.RefreshToken))
		_, err := service.Refresh(ctx, session.RefreshToken)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("deleted_account", func(t *testing.T) {
		freshSession, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
		require.NoError(t, err)

		users.delete(user.ID)

		_, err = service.Refresh(ctx, freshSession.RefreshToken)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})
}

/*
TestService_Logout_Idempotent verifies logout succeeds for invalid tokens
and for tokens that were already revoked.
*/
func TestService_Logout_Idempotent(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	registerTestUser(t, service, "alice@example.com", sec.RoleUser)
	session, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)

	assert.NoError(t, service.Logout(ctx, session.RefreshToken))
	assert.NoError(t, service.Logout(ctx, session.RefreshToken)) // already revoked
	assert.NoError(t, service.Logout(ctx, "garbage"))            // never valid
}
