// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package database is the DuckDB catalog store.

It owns users and teacher profiles, courses with their modules, lessons,
resources and certificates, enrollments and lesson completions, wishlists
and reviews. It also serves as the recommend.DataProvider for the
collaborative-filtering engine.

# Schema

Ids come from DuckDB sequences. Timestamps are TIMESTAMP columns written in
UTC by the application. There are no foreign keys; deletes cascade inside a
transaction (see DeleteCourse, DeleteModule, DeleteLesson).

# Errors

Lookups return ErrNotFound when a row is missing or does not chain to its
parent. State rules surface as ErrAlreadyEnrolled, ErrNotEnrolled,
ErrLessonsRemaining and ErrNotOwner. Everything else is wrapped with
fmt.Errorf("failed to ...: %w").

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	page, pagination, err := db.ListCourses(ctx, models.CourseListQuery{Query: "go", Page: 1})

Every method accepts a context. Contexts without a deadline get a 30 second
timeout.
*/
package database
