// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package models

import (
	"fmt"
	"time"
)

// Course is a catalog entry owned by a teacher profile.
type Course struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HardSkills  []string  `json:"hard_skills"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Module groups lessons inside a course.
type Module struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Lesson is a unit of study. DurationMinutes feeds the course duration total.
type Lesson struct {
	ID              int64  `json:"id"`
	ModuleID        int64  `json:"module_id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Resource is attached to a lesson, or standalone when LessonID is nil.
type Resource struct {
	ID           int64  `json:"id"`
	LessonID     *int64 `json:"lesson_id,omitempty"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	HardSkill    string `json:"hard_skill"`
	Downloadable bool   `json:"downloadable"`
	IsActive     bool   `json:"is_active"`
}

// Certificate is awarded for completing a course.
type Certificate struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CourseStats are the engagement counters shown next to every course.
type CourseStats struct {
	CompletedUsers int     `json:"completed_users"`
	WishlistCount  int     `json:"wishlist_count"`
	ReviewCount    int     `json:"review_count"`
	AverageRating  float64 `json:"average_rating"` // rounded to 1 decimal, 0 without reviews
}

// CourseSummary is a course with its counters.
type CourseSummary struct {
	Course
	CourseStats
}

// LessonDetail is a lesson with its resources.
type LessonDetail struct {
	Lesson
	Resources []Resource `json:"resources"`
}

// ModuleDetail is a module with its lessons.
type ModuleDetail struct {
	Module
	Lessons []LessonDetail `json:"lessons"`
}

// CourseListPage is one page of the public catalog. Recommended is filled
// for signed-in callers only and is never cached with the page.
type CourseListPage struct {
	Courses     []CourseSummary `json:"courses"`
	Recommended []CourseSummary `json:"recommended,omitempty"`
}

// CourseDetail is the full course view.
type CourseDetail struct {
	CourseSummary
	Modules              []ModuleDetail  `json:"modules"`
	Certificates         []Certificate   `json:"certificates"`
	Reviews              []Review        `json:"reviews"`
	TotalLessons         int             `json:"total_lessons"`
	TotalResources       int             `json:"total_resources"`
	TotalDurationMinutes int             `json:"total_duration_minutes"`
	FormattedDuration    string          `json:"formatted_duration"`
	Recommended          []CourseSummary `json:"recommended,omitempty"`
}

// FormatDuration renders minutes as "H hours M minutes".
func FormatDuration(totalMinutes int) string {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return fmt.Sprintf("%d hours %d minutes", totalMinutes/60, totalMinutes%60)
}

// TeacherCourse is a course in the authoring dashboard.
type TeacherCourse struct {
	Course
	TotalCompleted int `json:"total_completed"`
	TotalWishlist  int `json:"total_wishlist"`
	TotalEnrolled  int `json:"total_enrolled"`
}
