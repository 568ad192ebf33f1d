// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// HTTP delivery layer for self-service account management.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/velora/velora/internal/platform/request"
	"github.com/velora/velora/internal/platform/respond"
	"github.com/velora/velora/internal/platform/sec"
)

// Handler implements the account HTTP endpoints.
//
// # Scope
//
// All routes operate on the AUTHENTICATED user only; there is no way to
// address another account through this surface.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account self-service routes.
//
// # Endpoints
//   - GET    /me               : Returns the caller's own record.
//   - PUT    /me               : Applies partial updates to the record.
//   - DELETE /me               : Permanently removes the account.
//   - GET    /business-profile : Returns the caller's business profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.me)
	router.Put("/me", handler.update)
	router.Delete("/me", handler.remove)
	router.Get("/business-profile", handler.businessProfile)

	return router
}

// me handles GET /api/users/me requests.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateRequest represents the JSON payload for partial account updates.
// Absent fields are left unchanged.
type updateRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// update handles PUT /api/users/me requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateProfileInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		serviceInput.Role = &role
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// remove handles DELETE /api/users/me requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// businessProfile handles GET /api/users/business-profile requests.
func (handler *Handler) businessProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetBusinessProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
