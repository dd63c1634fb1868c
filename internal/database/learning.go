// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/campus/internal/models"
)

// progressSelect selects enrollments with lesson totals. Only completions
// with a finish time count.
const progressSelect = `
	SELECT e.id, e.user_id, e.course_id, e.status, e.enrolled_at, c.title,
		(SELECT count(*) FROM lessons l JOIN modules m ON m.id = l.module_id
			WHERE m.course_id = e.course_id),
		(SELECT count(*) FROM lesson_completions lc
			JOIN lessons l ON l.id = lc.lesson_id
			JOIN modules m ON m.id = l.module_id
			WHERE lc.enrollment_id = e.id AND lc.finished_at IS NOT NULL AND m.course_id = e.course_id)
	FROM enrollments e
	JOIN courses c ON c.id = e.course_id`

func scanProgress(row rowScanner) (models.Progress, error) {
	var p models.Progress
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Status, &p.EnrolledAt, &p.CourseTitle,
		&p.TotalLessons, &p.CompletedLessons)
	if err != nil {
		return p, err
	}
	p.Percent = models.ProgressPercent(p.CompletedLessons, p.TotalLessons)
	return p, nil
}

// Enroll creates an in-progress enrollment in an active course. Missing and
// inactive courses return ErrNotFound; enrolling twice returns
// ErrAlreadyEnrolled.
func (db *DB) Enroll(ctx context.Context, userID, courseID int64) (_ *models.Enrollment, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "enrollments", time.Now(), &err)

	var enrollment models.Enrollment
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "SELECT 1 FROM courses WHERE id = ? AND is_active", "course", courseID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO enrollments (user_id, course_id, status, enrolled_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, course_id) DO NOTHING`,
			userID, courseID, models.StatusInProgress, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to insert enrollment: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("course %d: %w", courseID, ErrAlreadyEnrolled)
		}

		e, err := findEnrollment(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		enrollment = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CompleteCourse marks an enrollment completed once every lesson of the
// course has been finished. Otherwise it returns ErrLessonsRemaining.
func (db *DB) CompleteCourse(ctx context.Context, userID, courseID int64) (_ *models.Progress, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("update", "enrollments", time.Now(), &err)

	var progress models.Progress
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		p, err := progressFor(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if p.CompletedLessons < p.TotalLessons {
			return fmt.Errorf("%d of %d lessons finished: %w", p.CompletedLessons, p.TotalLessons, ErrLessonsRemaining)
		}

		if p.Status != models.StatusCompleted {
			if _, err := tx.ExecContext(ctx,
				"UPDATE enrollments SET status = ? WHERE id = ?", models.StatusCompleted, p.ID); err != nil {
				return fmt.Errorf("failed to complete enrollment: %w", err)
			}
			p.Status = models.StatusCompleted
		}
		progress = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ViewLesson opens a lesson for an enrolled user and records its
// completion. The course, module and lesson must chain together.
func (db *DB) ViewLesson(ctx context.Context, userID int64, path ContentPath) (_ *models.LessonView, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "lessons", time.Now(), &err)

	view := &models.LessonView{CourseID: path.Course}
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "SELECT 1 FROM courses WHERE id = ?", "course", path.Course); err != nil {
			return err
		}
		if err := checkChain(ctx, tx, path); err != nil {
			return err
		}
		enrollment, err := findEnrollment(ctx, tx, userID, path.Course)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lesson_completions (enrollment_id, lesson_id, finished_at)
			VALUES (?, ?, ?)
			ON CONFLICT (enrollment_id, lesson_id) DO NOTHING`,
			enrollment.ID, path.Lesson, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to record lesson completion: %w", err)
		}

		if err := tx.QueryRowContext(ctx,
			"SELECT id, course_id, title, sort_order FROM modules WHERE id = ?", path.Module).Scan(
			&view.Module.ID, &view.Module.CourseID, &view.Module.Title, &view.Module.Position); err != nil {
			return fmt.Errorf("failed to read module: %w", err)
		}
		if view.Lesson, err = lessonDetail(ctx, tx, path.Lesson); err != nil {
			return err
		}

		if view.NextLesson, err = nextLesson(ctx, tx, enrollment.ID, path.Course); err != nil {
			return err
		}
		p, err := progressFor(ctx, tx, userID, path.Course)
		if err != nil {
			return err
		}
		view.IsLastLesson = view.NextLesson == nil && p.TotalLessons == p.CompletedLessons
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListProgress returns the user's enrollments with progress, oldest first.
func (db *DB) ListProgress(ctx context.Context, userID int64) (_ []models.Progress, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "enrollments", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, progressSelect+" WHERE e.user_id = ? ORDER BY e.enrolled_at, e.id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer closeRows(rows)

	progress := []models.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress: %w", err)
	}
	return progress, nil
}

// GetProgress returns the progress of one enrollment.
func (db *DB) GetProgress(ctx context.Context, userID, courseID int64) (_ *models.Progress, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "enrollments", time.Now(), &err)

	return progressFor(ctx, db.conn, userID, courseID)
}

// progressFor distinguishes a missing course (ErrNotFound) from a missing
// enrollment (ErrNotEnrolled).
func progressFor(ctx context.Context, q queryer, userID, courseID int64) (*models.Progress, error) {
	p, err := scanProgress(q.QueryRowContext(ctx, progressSelect+" WHERE e.user_id = ? AND e.course_id = ?", userID, courseID))
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}
	if err := requireRow(ctx, q, "SELECT 1 FROM courses WHERE id = ?", "course", courseID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("course %d: %w", courseID, ErrNotEnrolled)
}

func findEnrollment(ctx context.Context, q queryer, userID, courseID int64) (*models.Enrollment, error) {
	var e models.Enrollment
	err := q.QueryRowContext(ctx,
		"SELECT id, user_id, course_id, status, enrolled_at FROM enrollments WHERE user_id = ? AND course_id = ?",
		userID, courseID).Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.EnrolledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotEnrolled)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read enrollment: %w", err)
	}
	return &e, nil
}

func lessonDetail(ctx context.Context, q queryer, lessonID int64) (models.LessonDetail, error) {
	var l models.LessonDetail
	err := q.QueryRowContext(ctx,
		"SELECT id, module_id, title, content, duration_minutes FROM lessons WHERE id = ?", lessonID).Scan(
		&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.DurationMinutes)
	if err != nil {
		return l, notFound(err, "lesson", lessonID)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT id, lesson_id, name, url, hard_skill, downloadable, is_active FROM resources WHERE lesson_id = ? ORDER BY id",
		lessonID)
	if err != nil {
		return l, fmt.Errorf("failed to query lesson resources: %w", err)
	}
	defer closeRows(rows)

	l.Resources = []models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return l, fmt.Errorf("failed to scan resource: %w", err)
		}
		l.Resources = append(l.Resources, r)
	}
	if err := rows.Err(); err != nil {
		return l, fmt.Errorf("error iterating lesson resources: %w", err)
	}
	return l, nil
}

// nextLesson returns the lowest-id lesson of the course not yet finished
// in this enrollment, or nil when none remain.
func nextLesson(ctx context.Context, q queryer, enrollmentID, courseID int64) (*models.Lesson, error) {
	var l models.Lesson
	err := q.QueryRowContext(ctx, `
		SELECT l.id, l.module_id, l.title, l.content, l.duration_minutes
		FROM lessons l JOIN modules m ON m.id = l.module_id
		WHERE m.course_id = ?
			AND l.id NOT IN (
				SELECT lesson_id FROM lesson_completions
				WHERE enrollment_id = ? AND finished_at IS NOT NULL
			)
		ORDER BY l.id
		LIMIT 1`, courseID, enrollmentID).Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.DurationMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find next lesson: %w", err)
	}
	return &l, nil
}
