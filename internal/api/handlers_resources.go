// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/campus/internal/models"
)

// maxResourceQuery bounds the ?query= search term.
const maxResourceQuery = 200

// ListResources returns active downloadable standalone resources matching
// ?query= against name and hard skill.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if len(query) > maxResourceQuery {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query must be at most 200 characters", nil)
		return
	}

	resources, err := h.listResources(r.Context(), query)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, resources)
}

// ToggleResourceWishlist adds or removes a resource from the caller's
// wishlist.
func (h *Handler) ToggleResourceWishlist(w http.ResponseWriter, r *http.Request) {
	h.toggleWishlist(w, r, models.WishlistResource, "resourceID")
}

// CreateStandaloneResource adds a resource that belongs to no lesson.
func (h *Handler) CreateStandaloneResource(w http.ResponseWriter, r *http.Request) {
	var input models.ResourceInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	resource, err := h.db.CreateStandaloneResource(r.Context(), &input)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, resource)
}
