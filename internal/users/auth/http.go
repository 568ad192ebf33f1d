// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// HTTP delivery layer for the authentication use cases.
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velora/velora/internal/platform/apperr"
	"github.com/velora/velora/internal/platform/constants"
	requestutil "github.com/velora/velora/internal/platform/request"
	"github.com/velora/velora/internal/platform/respond"
	"github.com/velora/velora/internal/platform/sec"
	"github.com/velora/velora/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the account lifecycle entry points: registration,
// login, token refresh, and logout.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a token pair.
//   - POST /refresh  : Exchanges the refresh cookie for a new access token.
//   - POST /logout   : Revokes the refresh token and clears the cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// register handles POST /api/auth/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the User profile.
//   - Writes HTTP 422 Unprocessable Entity if validation rules fail.
//   - Writes HTTP 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	// Field validation, uniqueness checks, and Bcrypt hashing all live in
	// the service. Domain errors map to HTTP statuses via respond.Error.
	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		Role:      sec.UserRole(input.Role),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, user)
}

// login handles POST /api/auth/login requests.
//
// The endpoint speaks the OAuth2 password-grant form dialect ('username' /
// 'password' fields, urlencoded body) so standard clients work unchanged.
// The username field carries the account email.
//
// # Returns
//   - Writes HTTP 200 OK with the access token; the refresh token travels
//     in an HttpOnly cookie.
//   - Writes HTTP 404 Not Found for an unknown email.
//   - Writes HTTP 401 Unauthorized for a wrong password.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, validate.RequiredError("body", "must be form-encoded"))
		return
	}

	email := request.PostFormValue("username")
	password := request.PostFormValue("password")

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if email == "" || password == "" {
		respond.Error(writer, request, validate.RequiredError("username/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    email,
		Password: password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		"access_token": session.AccessToken,
		"token_type":   "bearer",
		"user":         session.User,
	})
}

// refresh handles POST /api/auth/refresh requests.
//
// The refresh token is read from the HttpOnly cookie set at login. The
// refresh token itself is not rotated; only a new access token is issued.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Refresh token not provided"))
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// logout handles POST /api/auth/logout requests.
//
// Always clears the cookie and returns 204, regardless of token state.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err == nil {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// setRefreshCookie attaches the refresh token as a hardened HttpOnly cookie.
// Path-scoping to the auth mount keeps the long-lived token off every other
// request the browser makes.
func setRefreshCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie expires the refresh cookie immediately.
func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
