// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext bounds DDL at startup.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

var sequenceNames = []string{
	"seq_teacher_profiles",
	"seq_courses",
	"seq_modules",
	"seq_lessons",
	"seq_resources",
	"seq_certificates",
	"seq_enrollments",
	"seq_wishlist_entries",
	"seq_reviews",
}

// Timestamps use TIMESTAMP (UTC written by the application) rather than
// TIMESTAMPTZ defaults, which need the ICU extension at WAL replay.
var tableQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username VARCHAR NOT NULL,
		email VARCHAR NOT NULL DEFAULT '',
		group_names VARCHAR NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teacher_profiles (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_teacher_profiles'),
		user_id BIGINT NOT NULL UNIQUE,
		headline VARCHAR NOT NULL,
		bio VARCHAR NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_courses'),
		teacher_id BIGINT NOT NULL,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS course_hard_skills (
		course_id BIGINT NOT NULL,
		sort_order INTEGER NOT NULL,
		skill VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_modules'),
		course_id BIGINT NOT NULL,
		title VARCHAR NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_lessons'),
		module_id BIGINT NOT NULL,
		title VARCHAR NOT NULL,
		content VARCHAR NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_resources'),
		lesson_id BIGINT,
		name VARCHAR NOT NULL,
		url VARCHAR NOT NULL,
		hard_skill VARCHAR NOT NULL DEFAULT '',
		downloadable BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS certificates (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_certificates'),
		course_id BIGINT NOT NULL,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_enrollments'),
		user_id BIGINT NOT NULL,
		course_id BIGINT NOT NULL,
		status VARCHAR NOT NULL,
		enrolled_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_completions (
		enrollment_id BIGINT NOT NULL,
		lesson_id BIGINT NOT NULL,
		finished_at TIMESTAMP,
		PRIMARY KEY (enrollment_id, lesson_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_entries (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_wishlist_entries'),
		user_id BIGINT NOT NULL,
		kind VARCHAR NOT NULL,
		target_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, kind, target_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_reviews'),
		user_id BIGINT NOT NULL,
		course_id BIGINT,
		resource_id BIGINT,
		rating INTEGER NOT NULL,
		comment VARCHAR NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_courses_teacher ON courses(teacher_id)`,
	`CREATE INDEX IF NOT EXISTS idx_hard_skills_course ON course_hard_skills(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_modules_course ON modules(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lessons_module ON lessons(module_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resources_lesson ON resources(lesson_id)`,
	`CREATE INDEX IF NOT EXISTS idx_certificates_course ON certificates(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wishlist_target ON wishlist_entries(kind, target_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_course ON reviews(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_resource ON reviews(resource_id)`,
}

// createTables creates sequences and tables. Every statement is idempotent.
func (db *DB) createTables(ctx context.Context) error {
	for _, name := range sequenceNames {
		query := fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 1", name)
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create sequence %s: %w", name, err)
		}
	}

	for _, query := range tableQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
