// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"context"
	"errors"
	"time"
)

// ErrMatrixTooLarge is returned when users*courses exceeds Config.MaxMatrixCells.
var ErrMatrixTooLarge = errors.New("interaction matrix exceeds configured size")

// Interaction is a Course wishlist entry reduced to its (user, course) pair.
type Interaction struct {
	UserID   int64
	CourseID int64
}

// ScoredCourse is a recommendation candidate with its normalized score.
type ScoredCourse struct {
	CourseID int64   `json:"course_id"`
	Score    float64 `json:"score"`
}

// Result is the outcome of one recommendation request.
type Result struct {
	UserID  int64          `json:"user_id"`
	Courses []ScoredCourse `json:"courses"`

	// MatrixUsers and MatrixCourses are the dimensions of the interaction matrix.
	MatrixUsers   int `json:"matrix_users"`
	MatrixCourses int `json:"matrix_courses"`

	// ZeroDivisor is true when the user's similarity row summed to zero.
	ZeroDivisor bool          `json:"zero_divisor"`
	Duration    time.Duration `json:"duration"`
}

// CourseIDs returns the recommended course ids in rank order.
func (r *Result) CourseIDs() []int64 {
	if r == nil {
		return nil
	}
	ids := make([]int64, len(r.Courses))
	for i, c := range r.Courses {
		ids[i] = c.CourseID
	}
	return ids
}

// DataProvider supplies the reads the engine needs. It is implemented by
// the catalog store.
type DataProvider interface {
	// AllUserIDs returns every known user id.
	AllUserIDs(ctx context.Context) ([]int64, error)

	// AllCourseIDs returns every known course id.
	AllCourseIDs(ctx context.Context) ([]int64, error)

	// CourseWishlistEntries returns wishlist entries of kind Course only.
	CourseWishlistEntries(ctx context.Context) ([]Interaction, error)
}

// EligibilitySource is an optional DataProvider extension. When the
// provider implements it, only the returned courses are recommended, while
// every course still contributes to similarity.
type EligibilitySource interface {
	// ActiveCourseIDs returns the courses that may be recommended.
	ActiveCourseIDs(ctx context.Context) ([]int64, error)
}
