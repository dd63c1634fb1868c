// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/models"
	"github.com/tomtom215/campus/internal/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errInvalidBody marks bodies that are not valid JSON for the target type.
var errInvalidBody = errors.New("invalid request body")

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("Vary", "Accept-Encoding, Authorization")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.Quote(strconv.FormatUint(uint64(hash), 16))
}

// respondSuccess sends data in the success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// respondPage sends one page of a listing with its pagination metadata.
func respondPage(w http.ResponseWriter, data interface{}, page *models.Pagination, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Pagination:  page,
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondStoreError maps store sentinels onto API errors. Unrecognized
// errors are logged and reported as INTERNAL_ERROR.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, database.ErrNotOwner):
		respondError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this course", nil)
	case errors.Is(err, database.ErrAlreadyEnrolled):
		respondError(w, http.StatusConflict, "CONFLICT", "Already enrolled in this course", nil)
	case errors.Is(err, database.ErrNotEnrolled):
		respondError(w, http.StatusConflict, "CONFLICT", "Not enrolled in this course", nil)
	case errors.Is(err, database.ErrLessonsRemaining):
		respondError(w, http.StatusConflict, "CONFLICT", "Finish every lesson before completing the course", nil)
	default:
		logging.Ctx(r.Context()).Error().
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.APIError()
	}
	return nil
}

// respondValidationError sends a 400 carrying the validation details.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// decodeJSON reads a JSON body of at most maxBodyBytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

// decodeAndValidate decodes the body into v and validates it, writing the
// 400 response itself. It reports whether the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSON(w, r, v); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return false
	}
	if apiErr := validateRequest(v); apiErr != nil {
		respondValidationError(w, apiErr)
		return false
	}
	return true
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// urlID parses a positive numeric chi URL parameter. An absent parameter
// yields 0 without error.
func urlID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// requireID parses a URL id and writes the 400 response on failure.
func requireID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := urlID(r, name)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// contentPath parses the courseID, moduleID and lessonID parameters that
// are present on the route.
func contentPath(w http.ResponseWriter, r *http.Request) (database.ContentPath, bool) {
	var p database.ContentPath
	var err error
	if p.Course, err = urlID(r, "courseID"); err == nil {
		if p.Module, err = urlID(r, "moduleID"); err == nil {
			p.Lesson, err = urlID(r, "lessonID")
		}
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return p, false
	}
	return p, true
}

// userID returns the authenticated caller. Routes using it sit behind
// auth.Middleware.Require, so a missing subject is a wiring bug.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return 0, false
	}
	return subject.UserID, true
}
