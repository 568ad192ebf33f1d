// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// Package api contains the health check handlers for liveness and readiness probes.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/velora/velora/internal/platform/apperr"
	"github.com/velora/velora/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
//
// Failure detail stays in the server logs; the response body only names
// which dependencies are down.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name string
		ping func() error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	var failed []string
	for _, check := range checks {
		if check.ping == nil {
			continue
		}
		if err := check.ping(); err != nil {
			failed = append(failed, check.name)
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", check.name),
				slog.Any("error", err),
			)
		}
	}

	if len(failed) > 0 {
		respond.Error(writer, request,
			apperr.ServiceUnavailable("Service not ready: "+strings.Join(failed, ", ")))
		return
	}

	respond.OK(writer, map[string]string{"status": "ready"})
}
