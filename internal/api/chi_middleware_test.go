// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/metrics"
)

func TestChiMiddlewareConfigFrom(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFrom(&config.SecurityConfig{
		CORSOrigins:       []string{"https://campus.example"},
		RateLimitRequests: 10,
		RateLimitWindow:   30 * time.Second,
	})
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.RateLimitRequests != 10 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("config = %+v", cfg)
	}

	def := ChiMiddlewareConfigFrom(&config.SecurityConfig{})
	if def.RateLimitRequests != 100 || def.RateLimitWindow != time.Minute {
		t.Errorf("zero values should keep defaults, got %+v", def)
	}
	if nilCfg := ChiMiddlewareConfigFrom(nil); nilCfg.RateLimitRequests != 100 {
		t.Errorf("nil config = %+v", nilCfg)
	}
}

func TestRateLimitCustom(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	m := NewChiMiddleware(DefaultChiMiddlewareConfig())
	limited := m.RateLimitCustom("test_limit", RateLimitConfig{Requests: 1, Window: time.Minute})(ok)
	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("test_limit"))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d status = %d, want %d", i, rec.Code, want)
		}
	}
	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("test_limit")) - before; got != 1 {
		t.Errorf("rate limit hits = %v, want 1", got)
	}

	disabled := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	h := disabled.RateLimitCustom("test_disabled", RateLimitConfig{Requests: 1, Window: time.Minute})(ok)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}

func TestKeyBySubjectOrIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		subject *auth.Subject
		want    string
	}{
		{"anonymous uses client ip", nil, "10.1.2.3"},
		{"authenticated uses user id", &auth.Subject{UserID: 42}, "user:42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
			req.RemoteAddr = "10.1.2.3:5555"
			if tt.subject != nil {
				req = req.WithContext(auth.WithSubject(req.Context(), tt.subject))
			}
			got, err := KeyBySubjectOrIP(req)
			if err != nil {
				t.Fatalf("KeyBySubjectOrIP() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	h := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("headers = %v", rec.Header())
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set on plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing behind TLS proxy")
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/courses", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, testOrigin)
	}
}
