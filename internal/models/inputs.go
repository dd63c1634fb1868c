// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package models

// Request bodies accepted by the API. Tags are enforced by internal/validation.

// CourseInput creates or updates a course.
type CourseInput struct {
	Title       string   `json:"title" validate:"required,notblank,min=3,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	HardSkills  []string `json:"hard_skills" validate:"max=20,dive,required,max=60"`
	IsActive    bool     `json:"is_active"`
}

// ModuleInput creates or updates a module.
type ModuleInput struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Position int    `json:"position" validate:"min=0,max=10000"`
}

// LessonInput creates or updates a lesson.
type LessonInput struct {
	Title           string `json:"title" validate:"required,notblank,max=200"`
	Content         string `json:"content" validate:"max=100000"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0,max=10000"`
}

// ResourceInput creates or updates a lesson resource.
type ResourceInput struct {
	Name         string `json:"name" validate:"required,notblank,max=200"`
	URL          string `json:"url" validate:"required,url"`
	HardSkill    string `json:"hard_skill" validate:"max=60"`
	Downloadable bool   `json:"downloadable"`
	IsActive     bool   `json:"is_active"`
}

// CertificateInput creates or updates a certificate.
type CertificateInput struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// ReviewInput creates or updates the caller's review.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// TeacherProfileInput creates or updates the caller's teacher profile.
type TeacherProfileInput struct {
	Headline string `json:"headline" validate:"required,notblank,max=120"`
	Bio      string `json:"bio" validate:"max=5000"`
}

// CourseListQuery is the course catalog query string.
type CourseListQuery struct {
	Query string `validate:"max=200"`
	Page  int    `validate:"min=1,max=100000"`
}
