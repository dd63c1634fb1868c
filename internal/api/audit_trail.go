// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/campus/internal/audit"
	"github.com/tomtom215/campus/internal/auth"
)

// Auditor records and reads the authoring audit trail. Implemented by
// *audit.Logger.
type Auditor interface {
	LogRequest(r *http.Request, actor audit.Actor, eventType audit.EventType, status int)
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
}

// SetAuditor enables the audit trail. Call before serving.
func (h *Handler) SetAuditor(a Auditor) {
	h.audit = a
}

// AuditWrites records every mutating request it wraps, including the
// rejected ones, with the status it was answered with.
func (h *Handler) AuditWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventType, ok := auditEventType(r)
		if h.audit == nil || !ok {
			next.ServeHTTP(w, r)
			return
		}

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		subject := auth.GetSubject(r.Context())
		if subject == nil {
			return
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.audit.LogRequest(r, audit.Actor{
			UserID: subject.UserID,
			Name:   subject.Username,
			Groups: subject.Groups,
		}, eventType, status)
	})
}

func auditEventType(r *http.Request) (audit.EventType, bool) {
	switch r.Method {
	case http.MethodPost:
		return audit.EventTypeContentCreated, true
	case http.MethodPut, http.MethodPatch:
		if strings.HasSuffix(r.URL.Path, "/profile") {
			return audit.EventTypeProfileUpdated, true
		}
		return audit.EventTypeContentUpdated, true
	case http.MethodDelete:
		return audit.EventTypeContentDeleted, true
	}
	return "", false
}

// TeacherActivity lists the caller's own audit events, newest first.
//
// Query parameters:
//   - limit: at most this many events (1-100, default 50)
//   - days: only events from the last N days (default all retained)
func (h *Handler) TeacherActivity(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		respondError(w, http.StatusServiceUnavailable, "AUDIT_DISABLED", "The audit trail is disabled", nil)
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	limit := getIntParam(r, "limit", 50)
	if limit < 1 || limit > audit.DefaultQueryLimit {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 100", nil)
		return
	}
	filter := audit.QueryFilter{UserID: uid, Limit: limit}
	if days := getIntParam(r, "days", 0); days > 0 {
		filter.Since = time.Now().UTC().AddDate(0, 0, -days)
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to read activity", err)
		return
	}
	respondSuccess(w, http.StatusOK, events)
}
