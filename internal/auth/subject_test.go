// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestParseAuthMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AuthMode
		wantErr bool
	}{
		{"", AuthModeNone, false},
		{"none", AuthModeNone, false},
		{"jwt", AuthModeJWT, false},
		{"basic", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAuthMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAuthMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAuthMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubjectFromClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tests := []struct {
		name    string
		sub     string
		wantID  int64
		wantErr bool
	}{
		{"numeric", "7", 7, false},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
		{"not a number", "ada", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{
				Username: "ada",
				Groups:   []string{"student"},
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   tt.sub,
					ExpiresAt: jwt.NewNumericDate(exp),
				},
			}
			s, err := SubjectFromClaims(claims)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("SubjectFromClaims() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SubjectFromClaims() error = %v", err)
			}
			if s.UserID != tt.wantID || !s.ExpiresAt.Equal(exp) || !s.InGroup("student") {
				t.Errorf("subject = %+v", s)
			}
		})
	}
}

func TestSubject_Helpers(t *testing.T) {
	var nilSubject *Subject
	if nilSubject.InGroup("student") || nilSubject.IsExpired() {
		t.Error("nil subject should not be in groups or expired")
	}

	s := &Subject{UserID: 3, Username: "bo", Groups: []string{"teacher"}, ExpiresAt: time.Now().Add(-time.Second)}
	if !s.IsExpired() {
		t.Error("IsExpired() = false for a past expiry")
	}

	u := s.User()
	if u.ID != 3 || u.Username != "bo" || !u.InGroup("teacher") {
		t.Errorf("User() = %+v", u)
	}
	u.Groups[0] = "changed"
	if s.Groups[0] != "teacher" {
		t.Error("User() shares the groups slice with the subject")
	}
}

func TestSubjectContext(t *testing.T) {
	if GetSubject(context.Background()) != nil {
		t.Error("GetSubject() on empty context should be nil")
	}
	s := &Subject{UserID: 1}
	if got := GetSubject(WithSubject(context.Background(), s)); got != s {
		t.Errorf("GetSubject() = %v, want %v", got, s)
	}
}
