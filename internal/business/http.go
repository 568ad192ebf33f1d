// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// HTTP delivery layer for the business-profile use cases.

package business

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora/velora/internal/platform/middleware"
	requestutil "github.com/velora/velora/internal/platform/request"
	"github.com/velora/velora/internal/platform/respond"
	"github.com/velora/velora/internal/platform/sec"
)

// Handler implements the business-profile HTTP endpoints.
type Handler struct {
	businessService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{businessService: service}
}

// Routes returns a [chi.Router] configured with the profile CRUD routes.
//
// # Endpoints
//   - POST   /     : Creates the caller's profile.
//   - GET    /{id} : Returns a profile owned by the caller.
//   - PUT    /{id} : Replaces the editable fields.
//   - DELETE /{id} : Removes the profile.
//
// Every route requires the 'business' role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireRole(sec.RoleBusiness))

	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)

	return router
}

// profileRequest represents the JSON payload for create and update.
type profileRequest struct {
	BusinessName string         `json:"business_name"`
	Description  string         `json:"description"`
	Address      string         `json:"address"`
	WorkingHours []WorkingHours `json:"working_hours"`
}

func (p profileRequest) toInput() ProfileInput {
	return ProfileInput{
		BusinessName: p.BusinessName,
		Description:  p.Description,
		Address:      p.Address,
		WorkingHours: p.WorkingHours,
	}
}

// create handles POST /api/business-profile requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.businessService.Create(request.Context(), userID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, profile)
}

// get handles GET /api/business-profile/{id} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.businessService.Get(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// update handles PUT /api/business-profile/{id} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.businessService.Update(request.Context(), userID, requestutil.Param(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// remove handles DELETE /api/business-profile/{id} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.businessService.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
