// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/tomtom215/campus/internal/models"
)

func TestListCourses_Search(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	teacher := mustTeacher(t, db, 100)
	goCourse := mustCourse(t, db, teacher, "Go Fundamentals", true, "golang")
	sqlCourse := mustCourse(t, db, teacher, "Relational Databases", true, "SQL", "DuckDB")
	mustCourse(t, db, teacher, "Hidden Go Draft", false, "golang")

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty query lists active", "", []int64{goCourse.ID, sqlCourse.ID}},
		{"title match", "fundamentals", []int64{goCourse.ID}},
		{"hard skill case-insensitive", "duckdb", []int64{sqlCourse.ID}},
		{"inactive never listed", "draft", []int64{}},
		{"wildcards are literal", "%", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, pagination, err := db.ListCourses(ctx, models.CourseListQuery{Query: tt.query, Page: 1})
			if err != nil {
				t.Fatalf("ListCourses() error = %v", err)
			}
			got := []int64{}
			for _, c := range courses {
				got = append(got, c.ID)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ListCourses(%q) ids = %v, want %v", tt.query, got, tt.want)
			}
			if pagination.Total != len(tt.want) {
				t.Errorf("Total = %d, want %d", pagination.Total, len(tt.want))
			}
		})
	}
}

func TestListCourses_Pagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	teacher := mustTeacher(t, db, 100)
	for i := range 10 {
		mustCourse(t, db, teacher, fmt.Sprintf("Course %02d", i), true)
	}

	first, p, err := db.ListCourses(ctx, models.CourseListQuery{Page: 1})
	if err != nil {
		t.Fatalf("ListCourses(page 1) error = %v", err)
	}
	if len(first) != CoursesPerPage {
		t.Errorf("page 1 len = %d, want %d", len(first), CoursesPerPage)
	}
	if p.TotalPages != 2 || !p.HasNext {
		t.Errorf("pagination = %+v, want 2 pages with next", p)
	}

	// Out-of-range pages clamp to the last page.
	last, p, err := db.ListCourses(ctx, models.CourseListQuery{Page: 50})
	if err != nil {
		t.Fatalf("ListCourses(page 50) error = %v", err)
	}
	if p.Page != 2 || len(last) != 1 {
		t.Errorf("page 50 -> page %d with %d courses, want page 2 with 1", p.Page, len(last))
	}
	if last[0].Title != "Course 09" {
		t.Errorf("last course = %q, want Course 09", last[0].Title)
	}
}

func TestCourseCounters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db)

	for _, uid := range []int64{1, 2, 3} {
		mustUser(t, db, uid, fmt.Sprintf("user%d", uid))
	}
	for uid, rating := range map[int64]int{1: 5, 2: 4, 3: 4} {
		if _, err := db.UpsertCourseReview(ctx, uid, c.course.ID, &models.ReviewInput{Rating: rating}); err != nil {
			t.Fatalf("UpsertCourseReview: %v", err)
		}
	}
	for _, uid := range []int64{1, 2} {
		if _, err := db.ToggleWishlist(ctx, uid, models.WishlistCourse, c.course.ID); err != nil {
			t.Fatalf("ToggleWishlist: %v", err)
		}
	}

	// Only the student finishes every lesson.
	if _, err := db.Enroll(ctx, c.student, c.course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	for _, l := range c.lessons {
		if _, err := db.ViewLesson(ctx, c.student, ContentPath{Course: c.course.ID, Module: c.module.ID, Lesson: l.ID}); err != nil {
			t.Fatalf("ViewLesson: %v", err)
		}
	}
	if _, err := db.CompleteCourse(ctx, c.student, c.course.ID); err != nil {
		t.Fatalf("CompleteCourse: %v", err)
	}
	if _, err := db.Enroll(ctx, 2, c.course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	s, err := db.GetCourseSummary(ctx, c.course.ID)
	if err != nil {
		t.Fatalf("GetCourseSummary() error = %v", err)
	}
	want := models.CourseStats{CompletedUsers: 1, WishlistCount: 2, ReviewCount: 3, AverageRating: 4.3}
	if s.CourseStats != want {
		t.Errorf("stats = %+v, want %+v", s.CourseStats, want)
	}
	if !slices.Equal(s.HardSkills, []string{"goroutines", "channels"}) {
		t.Errorf("HardSkills = %v, want [goroutines channels]", s.HardSkills)
	}
}

func TestGetCourseSummary_NoReviews(t *testing.T) {
	db := setupTestDB(t)
	c := seedCatalog(t, db)

	s, err := db.GetCourseSummary(context.Background(), c.course.ID)
	if err != nil {
		t.Fatalf("GetCourseSummary() error = %v", err)
	}
	if s.AverageRating != 0 || s.ReviewCount != 0 {
		t.Errorf("stats = %+v, want zero rating", s.CourseStats)
	}

	if _, err := db.GetCourseSummary(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCourseSummary(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCourseSummariesByIDs_KeepsOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	teacher := mustTeacher(t, db, 100)
	a := mustCourse(t, db, teacher, "A", true)
	b := mustCourse(t, db, teacher, "B", true)
	inactive := mustCourse(t, db, teacher, "C", false)

	got, err := db.CourseSummariesByIDs(ctx, []int64{inactive.ID, 4242, b.ID, a.ID, b.ID})
	if err != nil {
		t.Fatalf("CourseSummariesByIDs() error = %v", err)
	}
	var ids []int64
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	if want := []int64{inactive.ID, b.ID, a.ID}; !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	empty, err := db.CourseSummariesByIDs(ctx, nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("CourseSummariesByIDs(nil) = %v, %v; want empty slice", empty, err)
	}
}

func TestGetCourseDetail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db)

	if _, err := db.CreateCertificate(ctx, c.teacher, c.course.ID, &models.CertificateInput{Title: "Gopher"}); err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}

	d, err := db.GetCourseDetail(ctx, c.course.ID)
	if err != nil {
		t.Fatalf("GetCourseDetail() error = %v", err)
	}
	if d.TotalLessons != 2 || d.TotalResources != 1 || d.TotalDurationMinutes != 75 {
		t.Errorf("totals = %d lessons, %d resources, %d minutes; want 2, 1, 75",
			d.TotalLessons, d.TotalResources, d.TotalDurationMinutes)
	}
	if d.FormattedDuration != "1 hours 15 minutes" {
		t.Errorf("FormattedDuration = %q", d.FormattedDuration)
	}
	if len(d.Modules) != 1 || len(d.Modules[0].Lessons) != 2 {
		t.Fatalf("module tree = %+v", d.Modules)
	}
	if res := d.Modules[0].Lessons[0].Resources; len(res) != 1 || res[0].ID != c.resource.ID {
		t.Errorf("first lesson resources = %+v", res)
	}
	if len(d.Modules[0].Lessons[1].Resources) != 0 {
		t.Errorf("second lesson should have no resources")
	}
	if len(d.Certificates) != 1 || d.Reviews == nil {
		t.Errorf("certificates = %v, reviews = %v", d.Certificates, d.Reviews)
	}

	if _, err := db.GetCourseDetail(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCourseDetail(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAllIDs_Sorted(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []int64{30, 10, 20} {
		mustUser(t, db, id, "u")
	}
	users, err := db.AllUserIDs(ctx)
	if err != nil {
		t.Fatalf("AllUserIDs() error = %v", err)
	}
	if !slices.Equal(users, []int64{10, 20, 30}) {
		t.Errorf("AllUserIDs() = %v", users)
	}

	courses, err := db.AllCourseIDs(ctx)
	if err != nil {
		t.Fatalf("AllCourseIDs() error = %v", err)
	}
	if courses == nil || len(courses) != 0 {
		t.Errorf("AllCourseIDs() on empty catalog = %v, want []", courses)
	}
}

func TestActiveCourseIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	teacher := mustTeacher(t, db, 100)
	live := mustCourse(t, db, teacher, "Published Course", true)
	mustCourse(t, db, teacher, "Hidden Course", false)
	other := mustCourse(t, db, teacher, "Another Course", true)

	active, err := db.ActiveCourseIDs(ctx)
	if err != nil {
		t.Fatalf("ActiveCourseIDs() error = %v", err)
	}
	if !slices.Equal(active, []int64{live.ID, other.ID}) {
		t.Errorf("ActiveCourseIDs() = %v, want [%d %d]", active, live.ID, other.ID)
	}

	all, err := db.AllCourseIDs(ctx)
	if err != nil {
		t.Fatalf("AllCourseIDs() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("AllCourseIDs() = %v, want 3 ids", all)
	}
}
