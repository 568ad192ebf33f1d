// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

// Package dberr maps low-level pgx errors onto the application error
// taxonomy so repositories never leak driver details to callers.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velora/velora/internal/platform/apperr"
)

// Mapper translates driver errors for one resource into [apperr.AppError]
// values. Each Postgres repository declares a single Mapper carrying the
// client-facing names for its rows.
type Mapper struct {
	// Resource names the entity in NOT_FOUND messages, e.g. "User".
	Resource string

	// Conflict is the message for unique-index violations. Leave empty for
	// resources whose unique keys are server-generated; a violation then
	// surfaces as an internal failure instead of a client conflict.
	Conflict string
}

// Wrap classifies err: pgx.ErrNoRows becomes NotFound, a unique violation
// becomes Conflict when a message is configured, and anything else is
// wrapped with the action tag for server-side logs.
//
// Wrap is nil-safe, so repositories can return it unconditionally.
func (m Mapper) Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(m.Resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation && m.Conflict != "" {
		return apperr.Conflict(m.Conflict)
	}

	return fmt.Errorf("%s: %w", action, err)
}
