// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package authz

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/audit"
	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/metrics"
	"github.com/tomtom215/campus/internal/models"
)

// ProfileStore looks up teacher profiles.
type ProfileStore interface {
	GetTeacherProfile(ctx context.Context, userID int64) (*models.TeacherProfile, error)
}

// DenialAuditor records refused requests. Implemented by *audit.Logger.
type DenialAuditor interface {
	LogAuthzDenied(r *http.Request, actor audit.Actor, check string)
}

// Guard is HTTP middleware gating routes on roles, policy and the teacher
// profile. It must run after auth.Middleware.Require.
type Guard struct {
	enforcer *Enforcer
	profiles ProfileStore
	auditor  DenialAuditor
	logger   zerolog.Logger
}

// NewGuard creates a Guard. profiles may be nil when RequireTeacherProfile
// is not used.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewGuard(enforcer *Enforcer, profiles ProfileStore, logger zerolog.Logger) *Guard {
	return &Guard{
		enforcer: enforcer,
		profiles: profiles,
		logger:   logger.With().Str("component", "authz").Logger(),
	}
}

// SetAuditor records every denial in the audit trail. Call before serving.
func (g *Guard) SetAuditor(a DenialAuditor) {
	g.auditor = a
}

// Require allows the request when the subject's roles grant action on object.
func (g *Guard) Require(object, action string) func(http.Handler) http.Handler {
	check := object + ":" + action
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := auth.GetSubject(r.Context())
			if subject == nil {
				auth.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			allowed, err := g.enforcer.EnforceWithRoles(subjectKey(subject), subject.Groups, object, action)
			if err != nil {
				g.logger.Error().Err(err).Str("check", check).Msg("Authorization error")
				auth.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			metrics.RecordAuthzDecision(check, allowed)
			if !allowed {
				g.deny(w, r, subject, check)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows the request when the subject holds role directly or
// through inheritance.
func (g *Guard) RequireRole(role string) func(http.Handler) http.Handler {
	check := "role:" + role
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := auth.GetSubject(r.Context())
			if subject == nil {
				auth.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			allowed, err := g.enforcer.HasRole(subject.Groups, role)
			if err != nil {
				g.logger.Error().Err(err).Str("check", check).Msg("Authorization error")
				auth.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			metrics.RecordAuthzDecision(check, allowed)
			if !allowed {
				g.deny(w, r, subject, check)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTeacherProfile loads the subject's teacher profile and stores it on
// the context. Subjects without a profile get 403 TEACHER_PROFILE_REQUIRED.
func (g *Guard) RequireTeacherProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := auth.GetSubject(r.Context())
		if subject == nil {
			auth.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		profile, err := g.profiles.GetTeacherProfile(r.Context(), subject.UserID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			metrics.RecordAuthzDecision("teacher_profile", false)
			g.audit(r, subject, "teacher_profile")
			auth.WriteError(w, http.StatusForbidden, "TEACHER_PROFILE_REQUIRED",
				"Create a teacher profile before managing courses")
			return
		case err != nil:
			g.logger.Error().Err(err).Int64("user_id", subject.UserID).Msg("Failed to load teacher profile")
			auth.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		metrics.RecordAuthzDecision("teacher_profile", true)
		next.ServeHTTP(w, r.WithContext(WithTeacherProfile(r.Context(), profile)))
	})
}

func (g *Guard) deny(w http.ResponseWriter, r *http.Request, subject *auth.Subject, check string) {
	g.logger.Info().
		Int64("user_id", subject.UserID).
		Strs("groups", subject.Groups).
		Str("check", check).
		Str("path", r.URL.Path).
		Msg("Access denied")
	g.audit(r, subject, check)
	auth.WriteError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
}

func (g *Guard) audit(r *http.Request, subject *auth.Subject, check string) {
	if g.auditor == nil {
		return
	}
	g.auditor.LogAuthzDenied(r, audit.Actor{
		UserID: subject.UserID,
		Name:   subject.Username,
		Groups: subject.Groups,
	}, check)
}

func subjectKey(s *auth.Subject) string {
	return "user:" + strconv.FormatInt(s.UserID, 10)
}

type contextKey string

const teacherProfileKey contextKey = "teacher_profile"

// WithTeacherProfile returns a context carrying the teacher profile.
func WithTeacherProfile(ctx context.Context, p *models.TeacherProfile) context.Context {
	return context.WithValue(ctx, teacherProfileKey, p)
}

// TeacherProfileFromContext returns the profile stored by
// RequireTeacherProfile, or nil.
func TeacherProfileFromContext(ctx context.Context) *models.TeacherProfile {
	p, _ := ctx.Value(teacherProfileKey).(*models.TeacherProfile)
	return p
}
