// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/tomtom215/campus/internal/models"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeNone treats every request as anonymous
	AuthModeNone AuthMode = "none"

	// AuthModeJWT uses HMAC-signed JWT Bearer tokens
	AuthModeJWT AuthMode = "jwt"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "none", "":
		return AuthModeNone, nil
	case "jwt":
		return AuthModeJWT, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// String returns the string representation of AuthMode.
func (m AuthMode) String() string {
	return string(m)
}

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Subject is the authenticated caller.
type Subject struct {
	// UserID is the numeric account id carried in the token's sub claim.
	UserID int64 `json:"user_id"`

	Username string `json:"username"`
	Email    string `json:"email,omitempty"`

	// Groups are the caller's group memberships. Casbin treats each group
	// as a role.
	Groups []string `json:"groups,omitempty"`

	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// InGroup reports whether the subject belongs to the named group.
func (s *Subject) InGroup(name string) bool {
	return s != nil && slices.Contains(s.Groups, name)
}

// IsExpired reports whether the subject's credentials have expired.
func (s *Subject) IsExpired() bool {
	return s != nil && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// User converts the subject to the catalog user record.
func (s *Subject) User() *models.User {
	return &models.User{
		ID:       s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Groups:   slices.Clone(s.Groups),
	}
}

// SubjectFromClaims builds a Subject from validated claims.
func SubjectFromClaims(claims *Claims) (*Subject, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidCredentials, claims.Subject)
	}

	s := &Subject{
		UserID:   id,
		Username: claims.Username,
		Email:    claims.Email,
		Groups:   claims.Groups,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// WithSubject returns a context carrying the subject.
func WithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// GetSubject returns the authenticated subject, or nil for anonymous
// requests.
func GetSubject(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectContextKey).(*Subject)
	return s
}
