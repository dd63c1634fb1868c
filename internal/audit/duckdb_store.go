// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DuckDBStore persists events in the audit_events table.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a DuckDB-backed store. Call CreateTable once
// before use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// CreateTable creates audit_events and its indexes if missing. Timestamps
// are written as UTC TIMESTAMP values like the rest of the schema.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			type TEXT NOT NULL,
			outcome TEXT NOT NULL,
			actor_id BIGINT NOT NULL,
			actor_name TEXT,
			actor_groups TEXT,
			source_ip TEXT,
			source_user_agent TEXT,
			action TEXT NOT NULL,
			status INTEGER,
			request_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_actor_id ON audit_events(actor_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create audit schema: %w", err)
		}
	}
	return nil
}

// Save inserts one event.
func (s *DuckDBStore) Save(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	groups, err := json.Marshal(event.Actor.Groups)
	if err != nil {
		return fmt.Errorf("failed to encode actor groups: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, timestamp, type, outcome,
			actor_id, actor_name, actor_groups,
			source_ip, source_user_agent,
			action, status, request_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC(), string(event.Type), string(event.Outcome),
		event.Actor.UserID, event.Actor.Name, string(groups),
		event.Source.IPAddress, event.Source.UserAgent,
		event.Action, event.Status, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit event: %w", err)
	}
	return nil
}

// Query returns matching events, newest first.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := buildFilterConditions(filter)
	query := `
		SELECT id, timestamp, type, outcome,
		       actor_id, COALESCE(actor_name, ''), COALESCE(actor_groups, '[]'),
		       COALESCE(source_ip, ''), COALESCE(source_user_agent, ''),
		       action, COALESCE(status, 0), COALESCE(request_id, '')
		FROM audit_events` + where + `
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`
	args = append(args, filter.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var (
			e       Event
			typ     string
			outcome string
			groups  string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &typ, &outcome,
			&e.Actor.UserID, &e.Actor.Name, &groups,
			&e.Source.IPAddress, &e.Source.UserAgent,
			&e.Action, &e.Status, &e.RequestID); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Type = EventType(typ)
		e.Outcome = Outcome(outcome)
		if err := json.Unmarshal([]byte(groups), &e.Actor.Groups); err != nil {
			return nil, fmt.Errorf("failed to decode actor groups: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}
	return events, nil
}

// Delete removes events older than olderThan.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM audit_events WHERE timestamp < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted audit events: %w", err)
	}
	return n, nil
}

func buildFilterConditions(filter QueryFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.UserID != 0 {
		conditions = append(conditions, "actor_id = ?")
		args = append(args, filter.UserID)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		conditions = append(conditions, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
