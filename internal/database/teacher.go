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
	"strings"
	"time"

	"github.com/tomtom215/campus/internal/models"
)

// ContentPath addresses course content from the course down. Zero fields
// below the level being addressed are ignored.
type ContentPath struct {
	Course int64
	Module int64
	Lesson int64
}

// TeacherCourses returns the courses owned by a teacher profile with their
// enrollment, completion and wishlist totals.
func (db *DB) TeacherCourses(ctx context.Context, teacherID int64) (_ []models.TeacherCourse, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "courses", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.teacher_id, c.title, c.description, c.is_active, c.created_at,
			(SELECT count(*) FROM enrollments e WHERE e.course_id = c.id AND e.status = ?),
			(SELECT count(*) FROM wishlist_entries w WHERE w.kind = ? AND w.target_id = c.id),
			(SELECT count(*) FROM enrollments e WHERE e.course_id = c.id)
		FROM courses c
		WHERE c.teacher_id = ?
		ORDER BY c.id`, models.StatusCompleted, string(models.WishlistCourse), teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teacher courses: %w", err)
	}
	defer closeRows(rows)

	courses := []models.TeacherCourse{}
	for rows.Next() {
		var c models.TeacherCourse
		if err := rows.Scan(&c.ID, &c.TeacherID, &c.Title, &c.Description, &c.IsActive, &c.CreatedAt,
			&c.TotalCompleted, &c.TotalWishlist, &c.TotalEnrolled); err != nil {
			return nil, fmt.Errorf("failed to scan teacher course: %w", err)
		}
		c.HardSkills = []string{}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teacher courses: %w", err)
	}
	return courses, nil
}

// TeacherCourseDetail returns the full detail of a course the teacher owns.
func (db *DB) TeacherCourseDetail(ctx context.Context, teacherID, courseID int64) (*models.CourseDetail, error) {
	if err := db.checkOwner(ctx, db.conn, teacherID, ContentPath{Course: courseID}); err != nil {
		return nil, err
	}
	return db.GetCourseDetail(ctx, courseID)
}

// CreateCourse inserts a course owned by teacherID.
func (db *DB) CreateCourse(ctx context.Context, teacherID int64, input *models.CourseInput) (_ *models.Course, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "courses", time.Now(), &err)

	course := &models.Course{
		TeacherID:   teacherID,
		Title:       input.Title,
		Description: input.Description,
		HardSkills:  cleanSkills(input.HardSkills),
		IsActive:    input.IsActive,
		CreatedAt:   time.Now().UTC(),
	}
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO courses (teacher_id, title, description, is_active, created_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`,
			course.TeacherID, course.Title, course.Description, course.IsActive, course.CreatedAt).Scan(&course.ID)
		if err != nil {
			return fmt.Errorf("failed to insert course: %w", err)
		}
		return insertSkills(ctx, tx, course.ID, course.HardSkills)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse replaces the editable fields of an owned course.
func (db *DB) UpdateCourse(ctx context.Context, teacherID, courseID int64, input *models.CourseInput) (_ *models.Course, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("update", "courses", time.Now(), &err)

	skills := cleanSkills(input.HardSkills)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: courseID}); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE courses SET title = ?, description = ?, is_active = ? WHERE id = ?",
			input.Title, input.Description, input.IsActive, courseID); err != nil {
			return fmt.Errorf("failed to update course: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM course_hard_skills WHERE course_id = ?", courseID); err != nil {
			return fmt.Errorf("failed to clear hard skills: %w", err)
		}
		return insertSkills(ctx, tx, courseID, skills)
	})
	if err != nil {
		return nil, err
	}

	var course models.Course
	err = db.conn.QueryRowContext(ctx,
		"SELECT id, teacher_id, title, description, is_active, created_at FROM courses WHERE id = ?", courseID).Scan(
		&course.ID, &course.TeacherID, &course.Title, &course.Description, &course.IsActive, &course.CreatedAt)
	if err != nil {
		return nil, notFound(err, "course", courseID)
	}
	course.HardSkills = skills
	return &course, nil
}

// DeleteCourse removes an owned course and everything hanging off it.
func (db *DB) DeleteCourse(ctx context.Context, teacherID, courseID int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("delete", "courses", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: courseID}); err != nil {
			return err
		}
		if err := deleteLessons(ctx, tx, "module_id IN (SELECT id FROM modules WHERE course_id = ?)", courseID); err != nil {
			return err
		}
		return execAll(ctx, tx, courseID,
			"DELETE FROM modules WHERE course_id = ?",
			"DELETE FROM certificates WHERE course_id = ?",
			"DELETE FROM lesson_completions WHERE enrollment_id IN (SELECT id FROM enrollments WHERE course_id = ?)",
			"DELETE FROM enrollments WHERE course_id = ?",
			"DELETE FROM reviews WHERE course_id = ?",
			fmt.Sprintf("DELETE FROM wishlist_entries WHERE kind = '%s' AND target_id = ?", models.WishlistCourse),
			"DELETE FROM course_hard_skills WHERE course_id = ?",
			"DELETE FROM courses WHERE id = ?",
		)
	})
}

// CreateModule adds a module to an owned course.
func (db *DB) CreateModule(ctx context.Context, teacherID, courseID int64, input *models.ModuleInput) (_ *models.Module, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "modules", time.Now(), &err)

	module := &models.Module{CourseID: courseID, Title: input.Title, Position: input.Position}
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: courseID}); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			"INSERT INTO modules (course_id, title, sort_order) VALUES (?, ?, ?) RETURNING id",
			courseID, input.Title, input.Position).Scan(&module.ID)
	})
	if err != nil {
		return nil, wrapInsert(err, "module")
	}
	return module, nil
}

// UpdateModule edits a module of an owned course.
func (db *DB) UpdateModule(ctx context.Context, teacherID int64, path ContentPath, input *models.ModuleInput) (_ *models.Module, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("update", "modules", time.Now(), &err)

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"UPDATE modules SET title = ?, sort_order = ? WHERE id = ?", input.Title, input.Position, path.Module)
		if err != nil {
			return fmt.Errorf("failed to update module: %w", err)
		}
		return checkRowsAffected(result, "module", path.Module)
	})
	if err != nil {
		return nil, err
	}
	return &models.Module{ID: path.Module, CourseID: path.Course, Title: input.Title, Position: input.Position}, nil
}

// DeleteModule removes a module with its lessons.
func (db *DB) DeleteModule(ctx context.Context, teacherID int64, path ContentPath) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("delete", "modules", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		if err := deleteLessons(ctx, tx, "module_id = ?", path.Module); err != nil {
			return err
		}
		return execAll(ctx, tx, path.Module, "DELETE FROM modules WHERE id = ?")
	})
}

// CreateLesson adds a lesson to a module of an owned course.
func (db *DB) CreateLesson(ctx context.Context, teacherID int64, path ContentPath, input *models.LessonInput) (_ *models.Lesson, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "lessons", time.Now(), &err)

	lesson := &models.Lesson{
		ModuleID:        path.Module,
		Title:           input.Title,
		Content:         input.Content,
		DurationMinutes: input.DurationMinutes,
	}
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: path.Course, Module: path.Module}); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			"INSERT INTO lessons (module_id, title, content, duration_minutes) VALUES (?, ?, ?, ?) RETURNING id",
			path.Module, input.Title, input.Content, input.DurationMinutes).Scan(&lesson.ID)
	})
	if err != nil {
		return nil, wrapInsert(err, "lesson")
	}
	return lesson, nil
}

// UpdateLesson edits a lesson of an owned course.
func (db *DB) UpdateLesson(ctx context.Context, teacherID int64, path ContentPath, input *models.LessonInput) (_ *models.Lesson, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("update", "lessons", time.Now(), &err)

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"UPDATE lessons SET title = ?, content = ?, duration_minutes = ? WHERE id = ?",
			input.Title, input.Content, input.DurationMinutes, path.Lesson)
		if err != nil {
			return fmt.Errorf("failed to update lesson: %w", err)
		}
		return checkRowsAffected(result, "lesson", path.Lesson)
	})
	if err != nil {
		return nil, err
	}
	return &models.Lesson{
		ID:              path.Lesson,
		ModuleID:        path.Module,
		Title:           input.Title,
		Content:         input.Content,
		DurationMinutes: input.DurationMinutes,
	}, nil
}

// DeleteLesson removes a lesson with its resources and completions.
func (db *DB) DeleteLesson(ctx context.Context, teacherID int64, path ContentPath) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("delete", "lessons", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, path); err != nil {
			return err
		}
		return deleteLessons(ctx, tx, "id = ?", path.Lesson)
	})
}

// CreateCertificate adds a certificate to an owned course.
func (db *DB) CreateCertificate(ctx context.Context, teacherID, courseID int64, input *models.CertificateInput) (_ *models.Certificate, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "certificates", time.Now(), &err)

	cert := &models.Certificate{CourseID: courseID, Title: input.Title, Description: input.Description}
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: courseID}); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			"INSERT INTO certificates (course_id, title, description) VALUES (?, ?, ?) RETURNING id",
			courseID, input.Title, input.Description).Scan(&cert.ID)
	})
	if err != nil {
		return nil, wrapInsert(err, "certificate")
	}
	return cert, nil
}

// UpdateCertificate edits a certificate of an owned course.
func (db *DB) UpdateCertificate(ctx context.Context, teacherID, courseID, certificateID int64, input *models.CertificateInput) (_ *models.Certificate, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("update", "certificates", time.Now(), &err)

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: courseID}); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"UPDATE certificates SET title = ?, description = ? WHERE id = ? AND course_id = ?",
			input.Title, input.Description, certificateID, courseID)
		if err != nil {
			return fmt.Errorf("failed to update certificate: %w", err)
		}
		return checkRowsAffected(result, "certificate", certificateID)
	})
	if err != nil {
		return nil, err
	}
	return &models.Certificate{ID: certificateID, CourseID: courseID, Title: input.Title, Description: input.Description}, nil
}

// DeleteCertificate removes a certificate of an owned course.
func (db *DB) DeleteCertificate(ctx context.Context, teacherID, courseID, certificateID int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("delete", "certificates", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.checkOwner(ctx, tx, teacherID, ContentPath{Course: courseID}); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"DELETE FROM certificates WHERE id = ? AND course_id = ?", certificateID, courseID)
		if err != nil {
			return fmt.Errorf("failed to delete certificate: %w", err)
		}
		return checkRowsAffected(result, "certificate", certificateID)
	})
}

// checkOwner verifies that the course exists and belongs to teacherID, and
// that every non-zero level of path chains to its parent.
func (db *DB) checkOwner(ctx context.Context, q queryer, teacherID int64, path ContentPath) error {
	var owner int64
	err := q.QueryRowContext(ctx, "SELECT teacher_id FROM courses WHERE id = ?", path.Course).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("course %d: %w", path.Course, ErrNotFound)
		}
		return fmt.Errorf("failed to look up course owner: %w", err)
	}
	if owner != teacherID {
		return fmt.Errorf("course %d: %w", path.Course, ErrNotOwner)
	}
	return checkChain(ctx, q, path)
}

// checkChain verifies that the module belongs to the course and the lesson
// to the module.
func checkChain(ctx context.Context, q queryer, path ContentPath) error {
	if path.Module == 0 {
		return nil
	}
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM modules WHERE id = ? AND course_id = ?", path.Module, path.Course).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("module %d: %w", path.Module, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up module: %w", err)
	}

	if path.Lesson == 0 {
		return nil
	}
	err = q.QueryRowContext(ctx,
		"SELECT 1 FROM lessons WHERE id = ? AND module_id = ?", path.Lesson, path.Module).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lesson %d: %w", path.Lesson, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up lesson: %w", err)
	}
	return nil
}

// deleteLessons removes the lessons matching where, with their resources
// and completions. where takes a single argument.
func deleteLessons(ctx context.Context, tx *sql.Tx, where string, arg int64) error {
	lessonIDs := "(SELECT id FROM lessons WHERE " + where + ")"
	if err := deleteResources(ctx, tx, "lesson_id IN "+lessonIDs, arg); err != nil {
		return err
	}
	return execAll(ctx, tx, arg,
		"DELETE FROM lesson_completions WHERE lesson_id IN "+lessonIDs,
		"DELETE FROM lessons WHERE "+where,
	)
}

// deleteResources removes the resources matching where, with their
// wishlist entries and reviews. where takes a single argument.
func deleteResources(ctx context.Context, tx *sql.Tx, where string, arg int64) error {
	resourceIDs := "(SELECT id FROM resources WHERE " + where + ")"
	return execAll(ctx, tx, arg,
		fmt.Sprintf("DELETE FROM wishlist_entries WHERE kind = '%s' AND target_id IN %s", models.WishlistResource, resourceIDs),
		"DELETE FROM reviews WHERE resource_id IN "+resourceIDs,
		"DELETE FROM resources WHERE "+where,
	)
}

// execAll runs each statement with the single argument arg.
func execAll(ctx context.Context, tx *sql.Tx, arg int64, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, arg); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}
	return nil
}

func insertSkills(ctx context.Context, tx *sql.Tx, courseID int64, skills []string) error {
	for i, skill := range skills {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO course_hard_skills (course_id, sort_order, skill) VALUES (?, ?, ?)",
			courseID, i, skill); err != nil {
			return fmt.Errorf("failed to insert hard skill: %w", err)
		}
	}
	return nil
}

// cleanSkills trims skills and drops blanks.
func cleanSkills(skills []string) []string {
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return clean
}

// wrapInsert leaves store sentinels untouched and wraps everything else.
func wrapInsert(err error, entity string) error {
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("failed to insert %s: %w", entity, err)
}
