// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package models

import (
	"slices"
	"time"
)

// Group names. GroupTeacher gates the authoring endpoints.
const (
	GroupStudent = "student"
	GroupTeacher = "teacher"
)

// User is an identity known to the catalog. Accounts are provisioned by the
// external identity service; Campus keeps the id, display fields and group
// memberships it needs for authorization.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Groups    []string  `json:"groups"`
	CreatedAt time.Time `json:"created_at"`

	// TeacherProfile is nil unless the user completed a teacher profile.
	TeacherProfile *TeacherProfile `json:"teacher_profile,omitempty"`
}

// InGroup reports whether the user belongs to the named group.
func (u *User) InGroup(name string) bool {
	return u != nil && slices.Contains(u.Groups, name)
}

// HasTeacherProfile reports whether the optional profile relation is set.
func (u *User) HasTeacherProfile() bool {
	return u != nil && u.TeacherProfile != nil
}

// TeacherProfile is the authoring identity that owns courses.
type TeacherProfile struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Headline  string    `json:"headline"`
	Bio       string    `json:"bio"`
	UpdatedAt time.Time `json:"updated_at"`
}
