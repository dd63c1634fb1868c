// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package models

import (
	"math"
	"time"
)

// Enrollment statuses.
const (
	StatusInProgress = "inprogress"
	StatusCompleted  = "completed"
)

// Enrollment ties a user to a course.
type Enrollment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CourseID   int64     `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// LessonCompletion records that an enrolled user finished a lesson.
type LessonCompletion struct {
	EnrollmentID int64      `json:"enrollment_id"`
	LessonID     int64      `json:"lesson_id"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Progress summarizes an enrollment.
type Progress struct {
	Enrollment
	CourseTitle      string  `json:"course_title"`
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	Percent          float64 `json:"percent"`
}

// ProgressPercent returns completed/total as a percentage rounded to 2
// decimals. A course without lessons reports 0.
func ProgressPercent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}

// LessonView is returned when an enrolled user opens a lesson.
type LessonView struct {
	CourseID     int64        `json:"course_id"`
	Module       Module       `json:"module"`
	Lesson       LessonDetail `json:"lesson"`
	NextLesson   *Lesson      `json:"next_lesson,omitempty"`
	IsLastLesson bool         `json:"is_last_lesson"`
}
