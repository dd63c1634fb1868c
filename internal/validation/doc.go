// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

// Package validation validates request inputs with go-playground/validator v10.
//
// A singleton validator caches struct metadata and reports fields by their
// JSON names. The custom notblank tag rejects whitespace-only strings.
//
//	type CourseInput struct {
//	    Title      string   `json:"title" validate:"required,notblank,min=3,max=200"`
//	    HardSkills []string `json:"hard_skills" validate:"max=20,dive,required,max=60"`
//	}
//
//	if verr := validation.ValidateStruct(&in); verr != nil {
//	    respondValidationError(w, verr.APIError())
//	    return
//	}
//
// Messages:
//
//	required   -> "title is required"
//	notblank   -> "title must not be blank"
//	url        -> "url must be a valid URL"
//	min=3      -> "title must be at least 3 characters"
//	max=20     -> "hard_skills must be at most 20 items"
//
// A single failure yields details {"field", "tag"}; several yield
// details {"fields": [...]} and a message joining each failure.
package validation
