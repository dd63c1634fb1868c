// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package models

import "time"

// APIResponse is the envelope used by every JSON endpoint except the chat
// endpoints, which answer with ChatResponse only.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}
//	{"status":"error","error":{"code":"NOT_FOUND","message":"course not found"},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time   `json:"timestamp"`
	QueryTimeMS int64       `json:"query_time_ms,omitempty"`
	Pagination  *Pagination `json:"pagination,omitempty"`
}

// APIError is a machine-readable error code with a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Pagination describes a page of a numbered listing.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPagination computes page counts for total items.
func NewPagination(page, pageSize, total int) *Pagination {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

// ChatRequest is the inbound chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the only shape the chat endpoints ever return.
type ChatResponse struct {
	Response string `json:"response"`
}
