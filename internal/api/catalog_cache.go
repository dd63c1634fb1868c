// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/campus/internal/cache"
	"github.com/tomtom215/campus/internal/models"
)

const (
	cacheKeyCourses   = "courses"
	cacheKeyResources = "resources"
)

type coursePage struct {
	Courses []models.CourseSummary
	Page    *models.Pagination
}

// listCourses serves a course listing page through the catalog cache.
func (h *Handler) listCourses(ctx context.Context, q models.CourseListQuery) ([]models.CourseSummary, *models.Pagination, error) {
	if h.catalog == nil {
		return h.db.ListCourses(ctx, q)
	}

	key := cache.GenerateKey(cacheKeyCourses, q)
	if cached, ok := h.catalog.Get(key); ok {
		if p, ok := cached.(coursePage); ok {
			return p.Courses, p.Page, nil
		}
	}

	gen := h.catalog.Generation()
	courses, page, err := h.db.ListCourses(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	h.catalog.SetIfGeneration(key, coursePage{Courses: courses, Page: page}, gen)
	return courses, page, nil
}

// listResources serves the standalone resource listing through the
// catalog cache.
func (h *Handler) listResources(ctx context.Context, query string) ([]models.ResourceSummary, error) {
	if h.catalog == nil {
		return h.db.ListResources(ctx, query)
	}

	key := cache.GenerateKey(cacheKeyResources, query)
	if cached, ok := h.catalog.Get(key); ok {
		if resources, ok := cached.([]models.ResourceSummary); ok {
			return resources, nil
		}
	}

	gen := h.catalog.Generation()
	resources, err := h.db.ListResources(ctx, query)
	if err != nil {
		return nil, err
	}
	h.catalog.SetIfGeneration(key, resources, gen)
	return resources, nil
}

// InvalidateCatalog clears the catalog cache after every successful
// mutating request it wraps. Counters shown in listings (wishlists,
// reviews, completions) and the listings themselves change on these writes.
func (h *Handler) InvalidateCatalog(next http.Handler) http.Handler {
	if h.catalog == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status < http.StatusBadRequest {
			h.catalog.Clear()
		}
	})
}
