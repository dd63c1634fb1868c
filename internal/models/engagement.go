// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package models

import (
	"math"
	"time"
)

// WishlistKind distinguishes the targets sharing the wishlist table.
type WishlistKind string

const (
	WishlistCourse   WishlistKind = "Course"
	WishlistResource WishlistKind = "Resource"
)

// Valid reports whether k is a known kind.
func (k WishlistKind) Valid() bool {
	return k == WishlistCourse || k == WishlistResource
}

// WishlistEntry is unique per (UserID, Kind, TargetID).
type WishlistEntry struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Kind      WishlistKind `json:"kind"`
	TargetID  int64        `json:"target_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// WishlistToggle reports the state after a toggle.
type WishlistToggle struct {
	Kind     WishlistKind `json:"kind"`
	TargetID int64        `json:"target_id"`
	Added    bool         `json:"added"`
}

// Review rates a course or a resource.
type Review struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CourseID   *int64    `json:"course_id,omitempty"`
	ResourceID *int64    `json:"resource_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ResourceSummary is a standalone resource with its counters.
type ResourceSummary struct {
	Resource
	WishlistCount int     `json:"wishlist_count"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// RoundRating rounds an average rating to one decimal.
func RoundRating(avg float64) float64 {
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	return math.Round(avg*10) / 10
}
