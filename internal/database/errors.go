// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/logging"
)

// Sentinel errors returned by the store. Callers match them with errors.Is.
var (
	// ErrNotFound means the requested row does not exist, or does not belong
	// to the parent named in the request (a lesson outside its module).
	ErrNotFound = errors.New("not found")

	ErrAlreadyEnrolled = errors.New("already enrolled in course")
	ErrNotEnrolled     = errors.New("not enrolled in course")

	// ErrLessonsRemaining is returned by CompleteCourse while any lesson is unfinished.
	ErrLessonsRemaining = errors.New("course has unfinished lessons")

	// ErrNotOwner means the course belongs to another teacher profile.
	ErrNotOwner = errors.New("course is owned by another teacher")
)

// closeWithLog closes a resource and logs failures on the given logger.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func closeWithLog(closer io.Closer, logger zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and ignores the error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

// closeRows closes a result set, logging through the package logger.
func closeRows(rows *sql.Rows) {
	closeWithLog(rows, logging.Logger(), "rows")
}

// notFound converts sql.ErrNoRows into ErrNotFound naming the entity.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return err
}

// checkRowsAffected returns ErrNotFound when a write touched no rows.
func checkRowsAffected(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
