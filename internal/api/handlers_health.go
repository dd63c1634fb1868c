// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// It returns 200 OK as long as the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only if the database answers and, when the model is
// required, the chatbot bundle has loaded. Returns 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	chatState := "disabled"
	chatReady := true
	if h.chat != nil {
		state := h.chat.ModelState()
		chatState = state.String()
		if h.config != nil && h.config.Chatbot.RequireModel {
			chatReady = state == chatbot.StateReady
		}
	}
	ready := dbConnected && chatReady

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]interface{}{
		"database_connected": dbConnected,
		"chatbot_model":      chatState,
		"chat_clients":       h.wsHub.GetClientCount(),
		"ready_to_serve":     ready,
		"uptime":             time.Since(h.startTime).Seconds(),
	}
	if h.catalog != nil {
		stats := h.catalog.GetStats()
		data["catalog_cache"] = map[string]interface{}{
			"keys":     stats.TotalKeys,
			"hit_rate": h.catalog.HitRate(),
		}
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
