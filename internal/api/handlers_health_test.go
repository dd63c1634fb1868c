// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/config"
)

func TestHealthLive(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	rec := env.do(http.MethodGet, "/api/v1/health/live", "", "")
	expectStatus(t, rec, http.StatusOK)

	var data map[string]interface{}
	if got := decodeEnvelope(t, rec, &data); got.Status != "success" || data["alive"] != true {
		t.Errorf("live = %s", rec.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name         string
		chat         ChatResponder
		requireModel bool
		wantStatus   int
		wantModel    string
	}{
		{"no chatbot", nil, false, http.StatusOK, "disabled"},
		{"model not loaded yet", &fakeChat{state: chatbot.StateNotLoaded}, false, http.StatusOK, "not_loaded"},
		{"failed model tolerated", &fakeChat{state: chatbot.StateFailed}, false, http.StatusOK, "failed"},
		{"failed model required", &fakeChat{state: chatbot.StateFailed}, true, http.StatusServiceUnavailable, "failed"},
		{"ready model required", &fakeChat{state: chatbot.StateReady}, true, http.StatusOK, "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, envOptions{
				chat:      tt.chat,
				configure: func(c *config.Config) { c.Chatbot.RequireModel = tt.requireModel },
			})

			rec := env.do(http.MethodGet, "/api/v1/health/ready", "", "")
			expectStatus(t, rec, tt.wantStatus)

			var data map[string]interface{}
			decodeEnvelope(t, rec, &data)
			if data["chatbot_model"] != tt.wantModel {
				t.Errorf("chatbot_model = %v, want %s", data["chatbot_model"], tt.wantModel)
			}
			if data["database_connected"] != true {
				t.Errorf("database_connected = %v", data["database_connected"])
			}
		})
	}
}

func TestHealthReady_CatalogCache(t *testing.T) {
	tests := []struct {
		name      string
		ttl       time.Duration
		wantStats bool
	}{
		{"cache disabled", 0, false},
		{"cache enabled", time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, envOptions{
				configure: func(c *config.Config) { c.Catalog.CacheTTL = tt.ttl },
			})
			env.do(http.MethodGet, "/api/v1/courses", "", "")

			rec := env.do(http.MethodGet, "/api/v1/health/ready", "", "")
			expectStatus(t, rec, http.StatusOK)

			var data map[string]interface{}
			decodeEnvelope(t, rec, &data)
			stats, ok := data["catalog_cache"].(map[string]interface{})
			if ok != tt.wantStats {
				t.Fatalf("catalog_cache present = %v, want %v (%s)", ok, tt.wantStats, rec.Body.String())
			}
			if ok && stats["keys"] != float64(1) {
				t.Errorf("catalog_cache keys = %v, want 1", stats["keys"])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestEnv(t, envOptions{})
	env.do(http.MethodGet, "/api/v1/health/live", "", "")

	rec := env.do(http.MethodGet, "/metrics", "", "")
	expectStatus(t, rec, http.StatusOK)
}
