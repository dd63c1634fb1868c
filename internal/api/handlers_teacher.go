// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"net/http"

	"github.com/tomtom215/campus/internal/authz"
	"github.com/tomtom215/campus/internal/models"
)

// PutTeacherProfile creates or updates the caller's teacher profile.
func (h *Handler) PutTeacherProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var input models.TeacherProfileInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	profile, err := h.db.UpsertTeacherProfile(r.Context(), uid, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, profile)
}

// teacherID returns the caller's teacher profile id, stored on the request
// by authz.Guard.RequireTeacherProfile.
func teacherID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	profile := authz.TeacherProfileFromContext(r.Context())
	if profile == nil {
		respondError(w, http.StatusForbidden, "TEACHER_PROFILE_REQUIRED", "Create a teacher profile before managing courses", nil)
		return 0, false
	}
	return profile.ID, true
}

// TeacherCourses lists the caller's courses with their totals.
func (h *Handler) TeacherCourses(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courses, err := h.db.TeacherCourses(r.Context(), tid)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, courses)
}

// CreateCourse creates a course owned by the caller.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	var input models.CourseInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	course, err := h.db.CreateCourse(r.Context(), tid, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, course)
}

// GetTeacherCourse returns an owned course, active or not.
func (h *Handler) GetTeacherCourse(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}

	detail, err := h.db.TeacherCourseDetail(r.Context(), tid, courseID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, detail)
}

// UpdateCourse replaces an owned course's fields.
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	var input models.CourseInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	course, err := h.db.UpdateCourse(r.Context(), tid, courseID, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, course)
}

// DeleteCourse removes an owned course and its content.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	if err := h.db.DeleteCourse(r.Context(), tid, courseID); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateModule adds a module to an owned course.
func (h *Handler) CreateModule(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	var input models.ModuleInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	module, err := h.db.CreateModule(r.Context(), tid, courseID, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, module)
}

// UpdateModule replaces a module's fields.
func (h *Handler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	var input models.ModuleInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	module, err := h.db.UpdateModule(r.Context(), tid, path, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, module)
}

// DeleteModule removes a module and its lessons.
func (h *Handler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteModule(r.Context(), tid, path); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateLesson adds a lesson to a module.
func (h *Handler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	var input models.LessonInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	lesson, err := h.db.CreateLesson(r.Context(), tid, path, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, lesson)
}

// UpdateLesson replaces a lesson's fields.
func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	var input models.LessonInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	lesson, err := h.db.UpdateLesson(r.Context(), tid, path, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, lesson)
}

// DeleteLesson removes a lesson.
func (h *Handler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteLesson(r.Context(), tid, path); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateResource attaches a resource to a lesson.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	var input models.ResourceInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	resource, err := h.db.CreateResource(r.Context(), tid, path, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, resource)
}

// UpdateResource replaces a lesson resource's fields.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	resourceID, ok := requireID(w, r, "resourceID")
	if !ok {
		return
	}
	var input models.ResourceInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	resource, err := h.db.UpdateResource(r.Context(), tid, path, resourceID, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, resource)
}

// DeleteResource removes a lesson resource.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	path, ok := contentPath(w, r)
	if !ok {
		return
	}
	resourceID, ok := requireID(w, r, "resourceID")
	if !ok {
		return
	}
	if err := h.db.DeleteResource(r.Context(), tid, path, resourceID); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCertificate adds a certificate to an owned course.
func (h *Handler) CreateCertificate(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	var input models.CertificateInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	cert, err := h.db.CreateCertificate(r.Context(), tid, courseID, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, cert)
}

// UpdateCertificate replaces a certificate's fields.
func (h *Handler) UpdateCertificate(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	certificateID, ok := requireID(w, r, "certificateID")
	if !ok {
		return
	}
	var input models.CertificateInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	cert, err := h.db.UpdateCertificate(r.Context(), tid, courseID, certificateID, &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, cert)
}

// DeleteCertificate removes a certificate.
func (h *Handler) DeleteCertificate(w http.ResponseWriter, r *http.Request) {
	tid, ok := teacherID(w, r)
	if !ok {
		return
	}
	courseID, ok := requireID(w, r, "courseID")
	if !ok {
		return
	}
	certificateID, ok := requireID(w, r, "certificateID")
	if !ok {
		return
	}
	if err := h.db.DeleteCertificate(r.Context(), tid, courseID, certificateID); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
