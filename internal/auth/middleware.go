// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/metrics"
	"github.com/tomtom215/campus/internal/models"
)

// UserRecorder stores the account behind a validated token so the
// catalog and the recommender know about it.
type UserRecorder interface {
	UpsertUser(ctx context.Context, u *models.User) error
}

// Middleware authenticates requests from Bearer tokens or the token cookie.
type Middleware struct {
	jwt    *JWTManager
	mode   AuthMode
	users  UserRecorder
	logger zerolog.Logger

	// seen maps a user id to the fingerprint of the claims last written
	// through users, so unchanged accounts are not upserted per request.
	seen sync.Map
}

// NewMiddleware creates the authentication middleware. users may be nil.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewMiddleware(jwtManager *JWTManager, mode AuthMode, users UserRecorder, logger zerolog.Logger) (*Middleware, error) {
	if mode == AuthModeJWT && jwtManager == nil {
		return nil, fmt.Errorf("jwt auth mode requires a JWT manager")
	}
	return &Middleware{
		jwt:    jwtManager,
		mode:   mode,
		users:  users,
		logger: logger.With().Str("component", "auth").Logger(),
	}, nil
}

// Optional attaches the subject when the request carries a valid token and
// otherwise continues anonymously.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrNoCredentials) {
				m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Ignoring invalid credentials")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.attach(r.Context(), subject)))
	})
}

// Require rejects requests without a valid token with 401.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication required")
			w.Header().Set("WWW-Authenticate", `Bearer realm="campus"`)
			message := "Authentication required"
			if errors.Is(err, ErrExpiredCredentials) {
				message = "Token expired"
			}
			WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.attach(r.Context(), subject)))
	})
}

func (m *Middleware) attach(ctx context.Context, s *Subject) context.Context {
	ctx = WithSubject(ctx, s)
	return logging.ContextWithUserID(ctx, s.UserID)
}

func (m *Middleware) authenticate(r *http.Request) (*Subject, error) {
	if m.mode != AuthModeJWT {
		return nil, ErrNoCredentials
	}

	token, err := extractToken(r)
	if err != nil {
		metrics.RecordAuth(authResult(err))
		return nil, err
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		metrics.RecordAuth(authResult(err))
		return nil, err
	}

	subject, err := SubjectFromClaims(claims)
	if err != nil {
		metrics.RecordAuth(authResult(err))
		return nil, err
	}
	metrics.RecordAuth("success")

	m.recordUser(r.Context(), subject)
	return subject, nil
}

// recordUser upserts the account when its claims differ from the last
// recorded version. Failures are logged and do not fail the request.
func (m *Middleware) recordUser(ctx context.Context, s *Subject) {
	if m.users == nil {
		return
	}
	fp := fingerprint(s)
	if prev, ok := m.seen.Load(s.UserID); ok && prev.(string) == fp {
		return
	}
	if err := m.users.UpsertUser(ctx, s.User()); err != nil {
		m.logger.Warn().Err(err).Int64("user_id", s.UserID).Msg("Failed to record user")
		return
	}
	m.seen.Store(s.UserID, fp)
}

func fingerprint(s *Subject) string {
	groups := slices.Clone(s.Groups)
	slices.Sort(groups)
	return s.Username + "\x00" + s.Email + "\x00" + strings.Join(groups, ",")
}

// extractToken reads the Bearer token from the Authorization header, falling
// back to the token cookie.
func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			return "", ErrNoCredentials
		}
		return cookie.Value, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: invalid authorization header", ErrInvalidCredentials)
	}
	return strings.TrimSpace(token), nil
}

func authResult(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "missing"
	case errors.Is(err, ErrExpiredCredentials):
		return "expired"
	default:
		return "invalid"
	}
}
