// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package api_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velora/velora/internal/api"
)

func newHealthProbes(t *testing.T, dbErr, cacheErr error) (liveness, readiness http.HandlerFunc) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return dbErr },
		CheckCache:    func() error { return cacheErr },
	}, logger)
}

/* TestHealth_Liveness verifies the liveness probe ignores dependency state. */
func TestHealth_Liveness(t *testing.T) {
	liveness, _ := newHealthProbes(t, errors.New("down"), errors.New("down"))

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/* TestHealth_Readiness verifies the readiness probe reports 200 when every
dependency answers and 503 naming the ones that do not. */
func TestHealth_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		cacheErr   error
		wantStatus int
		wantInBody string
	}{
		{"all_healthy", nil, nil, http.StatusOK, "ready"},
		{"postgres_down", errors.New("refused"), nil, http.StatusServiceUnavailable, "postgres"},
		{"redis_down", nil, errors.New("refused"), http.StatusServiceUnavailable, "redis"},
		{"both_down", errors.New("refused"), errors.New("refused"), http.StatusServiceUnavailable, "postgres, redis"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, readiness := newHealthProbes(t, tc.dbErr, tc.cacheErr)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tc.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tc.wantInBody)
			if tc.wantStatus == http.StatusServiceUnavailable {
				assert.Contains(t, recorder.Body.String(), "SERVICE_UNAVAILABLE")
			}
		})
	}
}
