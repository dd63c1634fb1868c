// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/campus/internal/models"
)

func scanResource(row rowScanner) (models.Resource, error) {
	var r models.Resource
	var lessonID sql.NullInt64
	if err := row.Scan(&r.ID, &lessonID, &r.Name, &r.URL, &r.HardSkill, &r.Downloadable, &r.IsActive); err != nil {
		return r, err
	}
	if lessonID.Valid {
		id := lessonID.Int64
		r.LessonID = &id
	}
	return r, nil
}

// ListResources returns active, downloadable resources that are not
// attached to a lesson, filtered by a case-insensitive substring of the
// name or hard skill.
func (db *DB) ListResources(ctx context.Context, query string) (_ []models.ResourceSummary, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "resources", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.id, r.lesson_id, r.name, r.url, r.hard_skill, r.downloadable, r.is_active,
			(SELECT count(*) FROM wishlist_entries w WHERE w.kind = ? AND w.target_id = r.id),
			(SELECT count(*) FROM reviews v WHERE v.resource_id = r.id),
			(SELECT coalesce(avg(v.rating), 0) FROM reviews v WHERE v.resource_id = r.id)
		FROM resources r
		WHERE r.is_active AND r.downloadable AND r.lesson_id IS NULL
			AND (contains(lower(r.name), lower(?)) OR contains(lower(r.hard_skill), lower(?)))
		ORDER BY r.id`, string(models.WishlistResource), query, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer closeRows(rows)

	resources := []models.ResourceSummary{}
	for rows.Next() {
		var s models.ResourceSummary
		var lessonID sql.NullInt64
		var avg float64
		if err := rows.Scan(&s.ID, &lessonID, &s.Name, &s.URL, &s.HardSkill, &s.Downloadable, &s.IsActive,
			&s.WishlistCount, &s.ReviewCount, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		s.AverageRating = models.RoundRating(avg)
		resources = append(resources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}
	return resources, nil
}

// CreateStandaloneResource inserts a resource that belongs to no lesson.
// Standalone resources are listed by ListResources and are not owned by a
// teacher profile.
func (db *DB) CreateStandaloneResource(ctx context.Context, input *models.ResourceInput) (_ *models.Resource, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "resources", time.Now(), &err)

	return insertResource(ctx, db.conn, nil, input)
}

// CreateResource attaches a resource to a lesson of an owned course.
func (db *DB) CreateResource(ctx context.Context, teacherID int64, path ContentPath, input *models.ResourceInput) (_ *models.Resource, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "resources", time.Now(), &err)

	var resource *models.Resource
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		lessonID := path.Lesson
		resource, err = insertResource(ctx, tx, &lessonID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// UpdateResource edits a lesson resource of an owned course.
func (db *DB) UpdateResource(ctx context.Context, teacherID int64, path ContentPath, resourceID int64, input *models.ResourceInput) (_ *models.Resource, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("update", "resources", time.Now(), &err)

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE resources SET name = ?, url = ?, hard_skill = ?, downloadable = ?, is_active = ?
			WHERE id = ? AND lesson_id = ?`,
			input.Name, input.URL, input.HardSkill, input.Downloadable, input.IsActive, resourceID, path.Lesson)
		if err != nil {
			return fmt.Errorf("failed to update resource: %w", err)
		}
		return checkRowsAffected(result, "resource", resourceID)
	})
	if err != nil {
		return nil, err
	}

	lessonID := path.Lesson
	return &models.Resource{
		ID:           resourceID,
		LessonID:     &lessonID,
		Name:         input.Name,
		URL:          input.URL,
		HardSkill:    input.HardSkill,
		Downloadable: input.Downloadable,
		IsActive:     input.IsActive,
	}, nil
}

// DeleteResource removes a lesson resource of an owned course.
func (db *DB) DeleteResource(ctx context.Context, teacherID int64, path ContentPath, resourceID int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("delete", "resources", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		var one int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM resources WHERE id = ? AND lesson_id = ?", resourceID, path.Lesson).Scan(&one); err != nil {
			return notFound(err, "resource", resourceID)
		}
		return deleteResources(ctx, tx, "id = ?", resourceID)
	})
}

func insertResource(ctx context.Context, q queryer, lessonID *int64, input *models.ResourceInput) (*models.Resource, error) {
	r := &models.Resource{
		LessonID:     lessonID,
		Name:         input.Name,
		URL:          input.URL,
		HardSkill:    input.HardSkill,
		Downloadable: input.Downloadable,
		IsActive:     input.IsActive,
	}
	err := q.QueryRowContext(ctx, `
		INSERT INTO resources (lesson_id, name, url, hard_skill, downloadable, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		lessonID, r.Name, r.URL, r.HardSkill, r.Downloadable, r.IsActive).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert resource: %w", err)
	}
	return r, nil
}
