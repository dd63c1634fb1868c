// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/campus/internal/models"
)

// CoursesPerPage is the catalog page size.
const CoursesPerPage = 9

// courseSummarySelect selects a course with its engagement counters.
// Callers append the WHERE clause.
var courseSummarySelect = fmt.Sprintf(`
	SELECT c.id, c.teacher_id, c.title, c.description, c.is_active, c.created_at,
		(SELECT count(*) FROM enrollments e WHERE e.course_id = c.id AND e.status = '%s'),
		(SELECT count(*) FROM wishlist_entries w WHERE w.kind = '%s' AND w.target_id = c.id),
		(SELECT count(*) FROM reviews r WHERE r.course_id = c.id),
		(SELECT coalesce(avg(r.rating), 0) FROM reviews r WHERE r.course_id = c.id)
	FROM courses c`, models.StatusCompleted, models.WishlistCourse)

// courseSearchPredicate is a case-insensitive substring match over title,
// description and hard skills. An empty term matches every course.
const courseSearchPredicate = `(
		contains(lower(c.title), lower(?))
		OR contains(lower(c.description), lower(?))
		OR EXISTS (
			SELECT 1 FROM course_hard_skills s
			WHERE s.course_id = c.id AND contains(lower(s.skill), lower(?))
		)
	)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourseSummary(row rowScanner) (models.CourseSummary, error) {
	var s models.CourseSummary
	var avg float64
	err := row.Scan(
		&s.ID, &s.TeacherID, &s.Title, &s.Description, &s.IsActive, &s.CreatedAt,
		&s.CompletedUsers, &s.WishlistCount, &s.ReviewCount, &avg,
	)
	if err != nil {
		return s, err
	}
	s.AverageRating = models.RoundRating(avg)
	s.HardSkills = []string{}
	return s, nil
}

// ListCourses returns one page of active courses matching query.Query.
// Pages out of range are clamped to the first or last page.
func (db *DB) ListCourses(ctx context.Context, query models.CourseListQuery) (_ []models.CourseSummary, _ *models.Pagination, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "courses", time.Now(), &err)

	term := query.Query
	var total int
	err = db.conn.QueryRowContext(ctx,
		"SELECT count(*) FROM courses c WHERE c.is_active AND "+courseSearchPredicate,
		term, term, term).Scan(&total)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count courses: %w", err)
	}

	page := clampPage(query.Page, total, CoursesPerPage)
	rows, err := db.conn.QueryContext(ctx,
		courseSummarySelect+" WHERE c.is_active AND "+courseSearchPredicate+" ORDER BY c.id LIMIT ? OFFSET ?",
		term, term, term, CoursesPerPage, (page-1)*CoursesPerPage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer closeRows(rows)

	courses := []models.CourseSummary{}
	for rows.Next() {
		s, err := scanCourseSummary(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating courses: %w", err)
	}

	if err := db.attachHardSkills(ctx, courses); err != nil {
		return nil, nil, err
	}
	return courses, models.NewPagination(page, CoursesPerPage, total), nil
}

// clampPage maps a requested page onto [1, last page].
func clampPage(page, total, perPage int) int {
	last := 1
	if total > 0 {
		last = (total + perPage - 1) / perPage
	}
	return max(1, min(page, last))
}

// GetCourseSummary returns a course with counters, active or not.
func (db *DB) GetCourseSummary(ctx context.Context, id int64) (_ *models.CourseSummary, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "courses", time.Now(), &err)

	s, err := scanCourseSummary(db.conn.QueryRowContext(ctx, courseSummarySelect+" WHERE c.id = ?", id))
	if err != nil {
		return nil, notFound(err, "course", id)
	}

	one := []models.CourseSummary{s}
	if err := db.attachHardSkills(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// CourseSummariesByIDs returns summaries in the order of ids. Unknown ids
// are skipped.
func (db *DB) CourseSummariesByIDs(ctx context.Context, ids []int64) (_ []models.CourseSummary, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "courses", time.Now(), &err)

	if len(ids) == 0 {
		return []models.CourseSummary{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := db.conn.QueryContext(ctx,
		courseSummarySelect+" WHERE c.id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer closeRows(rows)

	byID := make(map[int64]models.CourseSummary, len(ids))
	for rows.Next() {
		s, err := scanCourseSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	courses := make([]models.CourseSummary, 0, len(byID))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			courses = append(courses, s)
			delete(byID, id)
		}
	}
	if err := db.attachHardSkills(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// AllCourseIDs returns every course id in ascending order.
func (db *DB) AllCourseIDs(ctx context.Context) (_ []int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "courses", time.Now(), &err)

	return db.queryIDs(ctx, "SELECT id FROM courses ORDER BY id")
}

// ActiveCourseIDs returns the ids of active courses. It lets the
// recommender skip inactive courses before applying its limit.
func (db *DB) ActiveCourseIDs(ctx context.Context) (_ []int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "courses", time.Now(), &err)

	return db.queryIDs(ctx, "SELECT id FROM courses WHERE is_active ORDER BY id")
}

// GetCourseDetail returns a course with its modules, lessons, resources,
// certificates, reviews and totals. Recommended is left empty.
func (db *DB) GetCourseDetail(ctx context.Context, id int64) (*models.CourseDetail, error) {
	summary, err := db.GetCourseSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "modules", time.Now(), &err)

	detail := &models.CourseDetail{CourseSummary: *summary}
	if detail.Modules, err = db.loadModuleTree(ctx, id); err != nil {
		return nil, err
	}
	if detail.Certificates, err = db.listCertificates(ctx, id); err != nil {
		return nil, err
	}
	if detail.Reviews, err = db.listCourseReviews(ctx, id); err != nil {
		return nil, err
	}

	for _, m := range detail.Modules {
		detail.TotalLessons += len(m.Lessons)
		for _, l := range m.Lessons {
			detail.TotalResources += len(l.Resources)
			detail.TotalDurationMinutes += l.DurationMinutes
		}
	}
	detail.FormattedDuration = models.FormatDuration(detail.TotalDurationMinutes)
	return detail, nil
}

// loadModuleTree loads modules ordered by position, each with its lessons
// and their resources ordered by id.
func (db *DB) loadModuleTree(ctx context.Context, courseID int64) ([]models.ModuleDetail, error) {
	modules := []models.ModuleDetail{}
	moduleIdx := map[int64]int{}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, course_id, title, sort_order FROM modules WHERE course_id = ? ORDER BY sort_order, id", courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	for rows.Next() {
		var m models.ModuleDetail
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Position); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		m.Lessons = []models.LessonDetail{}
		moduleIdx[m.ID] = len(modules)
		modules = append(modules, m)
	}
	closeRows(rows)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating modules: %w", err)
	}

	type lessonPos struct{ module, lesson int }
	lessonIdx := map[int64]lessonPos{}

	rows, err = db.conn.QueryContext(ctx, `
		SELECT l.id, l.module_id, l.title, l.content, l.duration_minutes
		FROM lessons l JOIN modules m ON m.id = l.module_id
		WHERE m.course_id = ?
		ORDER BY l.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	for rows.Next() {
		var l models.LessonDetail
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.DurationMinutes); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		l.Resources = []models.Resource{}
		mi := moduleIdx[l.ModuleID]
		lessonIdx[l.ID] = lessonPos{mi, len(modules[mi].Lessons)}
		modules[mi].Lessons = append(modules[mi].Lessons, l)
	}
	closeRows(rows)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}

	rows, err = db.conn.QueryContext(ctx, `
		SELECT r.id, r.lesson_id, r.name, r.url, r.hard_skill, r.downloadable, r.is_active
		FROM resources r
		JOIN lessons l ON l.id = r.lesson_id
		JOIN modules m ON m.id = l.module_id
		WHERE m.course_id = ?
		ORDER BY r.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer closeRows(rows)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		pos := lessonIdx[*r.LessonID]
		lesson := &modules[pos.module].Lessons[pos.lesson]
		lesson.Resources = append(lesson.Resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}
	return modules, nil
}

func (db *DB) listCertificates(ctx context.Context, courseID int64) ([]models.Certificate, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, course_id, title, description FROM certificates WHERE course_id = ? ORDER BY id", courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer closeRows(rows)

	certs := []models.Certificate{}
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.CourseID, &c.Title, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certificates: %w", err)
	}
	return certs, nil
}

// attachHardSkills fills HardSkills for every course in place.
func (db *DB) attachHardSkills(ctx context.Context, courses []models.CourseSummary) error {
	if len(courses) == 0 {
		return nil
	}

	args := make([]any, len(courses))
	idx := make(map[int64]int, len(courses))
	for i := range courses {
		args[i] = courses[i].ID
		idx[courses[i].ID] = i
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT course_id, skill FROM course_hard_skills WHERE course_id IN ("+placeholders(len(args))+") ORDER BY course_id, sort_order",
		args...)
	if err != nil {
		return fmt.Errorf("failed to query hard skills: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var courseID int64
		var skill string
		if err := rows.Scan(&courseID, &skill); err != nil {
			return fmt.Errorf("failed to scan hard skill: %w", err)
		}
		i := idx[courseID]
		courses[i].HardSkills = append(courses[i].HardSkills, skill)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating hard skills: %w", err)
	}
	return nil
}
