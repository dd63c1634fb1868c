// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/models"
)

// ListCourses returns one page of active courses. ?query= filters by
// title, description and hard skills; ?page= out of range is clamped.
// Signed-in callers also get their recommendations, computed per request.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := models.CourseListQuery{
		Query: strings.TrimSpace(r.URL.Query().Get("query")),
		Page:  max(1, getIntParam(r, "page", 1)),
	}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	courses, page, err := h.listCourses(r.Context(), query)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	listing := models.CourseListPage{Courses: courses}
	if subject := auth.GetSubject(r.Context()); subject != nil {
		listing.Recommended = h.recommendedOrEmpty(r, subject.UserID)
	}
	respondPage(w, listing, page, start)
}

// GetCourse returns an active course with its content tree and counters.
// Authenticated callers also get their recommendations.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}

	detail, err := h.db.GetCourseDetail(r.Context(), courseID)
	if err == nil && !detail.IsActive {
		err = database.ErrNotFound
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	if subject := auth.GetSubject(r.Context()); subject != nil {
		detail.Recommended = h.recommendedOrEmpty(r, subject.UserID)
	}
	respondSuccess(w, http.StatusOK, detail)
}

// recommendedOrEmpty is recommendedCourses for pages that must render
// without recommendations when ranking fails.
func (h *Handler) recommendedOrEmpty(r *http.Request, uid int64) []models.CourseSummary {
	recommended, err := h.recommendedCourses(r.Context(), uid)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", sanitizeLogValue(r.URL.Path)).Msg("Recommendations unavailable")
		return []models.CourseSummary{}
	}
	return recommended
}

// MyRecommendations returns the caller's recommended courses.
func (h *Handler) MyRecommendations(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	recommended, err := h.recommendedCourses(r.Context(), uid)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(w, http.StatusServiceUnavailable, "RECOMMENDATIONS_UNAVAILABLE", "Recommendations timed out", err)
			return
		}
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, recommended)
}

// recommendedCourses ranks courses for the user and loads their summaries
// in rank order. The engine already skips inactive courses; a course
// deactivated between ranking and loading is dropped here.
func (h *Handler) recommendedCourses(ctx context.Context, uid int64) ([]models.CourseSummary, error) {
	if h.recommender == nil {
		return []models.CourseSummary{}, nil
	}
	if h.config != nil && h.config.Recommend.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Recommend.Timeout)
		defer cancel()
	}

	result, err := h.recommender.Recommend(ctx, uid)
	if err != nil {
		return nil, err
	}
	summaries, err := h.db.CourseSummariesByIDs(ctx, result.CourseIDs())
	if err != nil {
		return nil, err
	}

	active := make([]models.CourseSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

// Enroll enrolls the caller in an active course. Inactive courses answer
// 404 like missing ones.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}

	enrollment, err := h.db.Enroll(r.Context(), uid, courseID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, enrollment)
}

// CompleteCourse marks the caller's enrollment completed once every lesson
// is finished.
func (h *Handler) CompleteCourse(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}

	progress, err := h.db.CompleteCourse(r.Context(), uid, courseID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, progress)
}

// ToggleCourseWishlist adds the course to the caller's wishlist, or removes
// it when already present.
func (h *Handler) ToggleCourseWishlist(w http.ResponseWriter, r *http.Request) {
	h.toggleWishlist(w, r, models.WishlistCourse, "courseID")
}

func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request, kind models.WishlistKind, param string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	targetID, ok := requireID(w, r, param)
	if !ok {
		return
	}

	toggle, err := h.db.ToggleWishlist(r.Context(), uid, kind, targetID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, toggle)
}

// PutReview creates or replaces the caller's review of a course.
func (h *Handler) PutReview(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	var input models.ReviewInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	review, err := h.db.UpsertCourseReview(r.Context(), uid, courseID, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, review)
}

// ViewLesson returns a lesson of a course the caller is enrolled in and
// records it as completed.
func (h *Handler) ViewLesson(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}

	view, err := h.db.ViewLesson(r.Context(), uid, path)
	if errors.Is(err, database.ErrNotEnrolled) {
		respondError(w, http.StatusForbidden, "NOT_ENROLLED", "Enroll in the course to view its lessons", nil)
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, view)
}

// MyCourses lists the caller's enrollments with progress.
func (h *Handler) MyCourses(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	progress, err := h.db.ListProgress(r.Context(), uid)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, progress)
}

// MyCourse returns the caller's progress in one course.
func (h *Handler) MyCourse(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}

	progress, err := h.db.GetProgress(r.Context(), uid, courseID)
	if errors.Is(err, database.ErrNotEnrolled) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Not enrolled in this course", nil)
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, progress)
}
