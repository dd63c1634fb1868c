// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package audit

import (
	"context"
	"net"
	"net/http"
	"time"
)

// EventType categorizes audit events.
type EventType string

const (
	EventTypeContentCreated EventType = "content.created"
	EventTypeContentUpdated EventType = "content.updated"
	EventTypeContentDeleted EventType = "content.deleted"
	EventTypeProfileUpdated EventType = "teacher.profile_updated"
	EventTypeAuthzDenied    EventType = "authz.denied"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one audit record.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Outcome   Outcome   `json:"outcome"`
	Actor     Actor     `json:"actor"`
	Source    Source    `json:"source"`

	// Action is "METHOD path" for request events and the failed check for
	// denials.
	Action string `json:"action"`

	// Status is the HTTP status returned to the caller.
	Status int `json:"status,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// Actor is the authenticated user behind an event.
type Actor struct {
	UserID int64    `json:"user_id"`
	Name   string   `json:"name,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// Source is where a request came from.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// SourceFromRequest extracts the client address and user agent. The
// address is RemoteAddr as rewritten by the real-IP middleware.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error

	// Query returns matching events, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events older than olderThan and returns how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter selects audit events. Zero fields match everything.
type QueryFilter struct {
	UserID int64
	Types  []EventType
	Since  time.Time
	Limit  int
}

// DefaultQueryLimit caps queries that do not set a limit.
const DefaultQueryLimit = 100

func (f QueryFilter) limit() int {
	if f.Limit <= 0 || f.Limit > DefaultQueryLimit {
		return DefaultQueryLimit
	}
	return f.Limit
}

func (f QueryFilter) matches(e *Event) bool {
	if f.UserID != 0 && e.Actor.UserID != f.UserID {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if e.Type == t {
			return true
		}
	}
	return false
}
