// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package auth

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/models"
)

// WriteError writes an error envelope. It is shared with the authz guard so
// rejections from either middleware look like API errors.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode error response")
	}
}
