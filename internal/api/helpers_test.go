// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/models"
)

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"del\x7f", `del\x7f`},
		{"ünïcode", "ünïcode"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateETag(t *testing.T) {
	t.Parallel()

	a := generateETag([]byte(`{"a":1}`))
	if a != generateETag([]byte(`{"a":1}`)) {
		t.Error("ETag not stable for equal input")
	}
	if a == generateETag([]byte(`{"a":2}`)) {
		t.Error("ETag equal for different input")
	}
	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) {
		t.Errorf("ETag %s is not quoted", a)
	}
}

func TestRespondStoreError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("course 9: %w", database.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{database.ErrNotOwner, http.StatusForbidden, "FORBIDDEN"},
		{database.ErrAlreadyEnrolled, http.StatusConflict, "CONFLICT"},
		{database.ErrNotEnrolled, http.StatusConflict, "CONFLICT"},
		{database.ErrLessonsRemaining, http.StatusConflict, "CONFLICT"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code+" "+tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondStoreError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)
			expectErrorCode(t, rec, tt.status, tt.code)
		})
	}
}

func TestRespondStoreError_HidesInternalMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondStoreError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("SELECT secret FROM users"))
	if strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestURLID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"", 0, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		r := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "courseID", tt.value)
		got, err := urlID(r, "courseID")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("urlID(%q) = %d, %v; want %d, err=%v", tt.value, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestContentPath(t *testing.T) {
	t.Parallel()

	r := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "courseID", "1", "moduleID", "2", "lessonID", "3")
	rec := httptest.NewRecorder()
	p, ok := contentPath(rec, r)
	if !ok || p != (database.ContentPath{Course: 1, Module: 2, Lesson: 3}) {
		t.Errorf("contentPath() = %+v, %v", p, ok)
	}

	bad := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "courseID", "1", "moduleID", "x")
	rec = httptest.NewRecorder()
	if _, ok := contentPath(rec, bad); ok {
		t.Error("contentPath() accepted a bad module id")
	}
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"rating":3}`, true},
		{"invalid json", `{`, false},
		{"fails validation", `{"rating":0}`, false},
		{"too large", `{"comment":"` + strings.Repeat("x", maxBodyBytes) + `","rating":3}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			var input models.ReviewInput
			if got := decodeAndValidate(rec, req, &input); got != tt.ok {
				t.Fatalf("decodeAndValidate() = %v, want %v", got, tt.ok)
			}
			if !tt.ok {
				expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
			}
		})
	}
}

func TestGetIntParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=-2", -2},
		{"page=two", 1},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := getIntParam(r, "page", 1); got != tt.want {
			t.Errorf("getIntParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
