// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

// Package audit records who changed the catalog and who was turned away.
//
// Two kinds of events are kept:
//   - content.created, content.updated, content.deleted and
//     teacher.profile_updated for every mutating teacher request,
//     including rejected ones (Outcome failure, with the HTTP status).
//   - authz.denied whenever the authorization guard refuses a request.
//
// # Architecture
//
// Writes never block the request path:
//
//	Logger.Log() -> buffered chan -> writer goroutine -> Store
//
// When the buffer is full the event is dropped and a warning is logged.
// Close drains whatever is still buffered before returning.
//
// # Storage
//
// DuckDBStore persists events in the audit_events table of the main
// database. MemoryStore keeps a bounded slice and is used in tests.
//
// # Retention
//
// Logger.Purge deletes events older than the configured retention. The
// server runs it periodically as a supervised service.
//
// # Example
//
//	store := audit.NewDuckDBStore(db.Conn())
//	if err := store.CreateTable(ctx); err != nil {
//	    return err
//	}
//	trail := audit.NewLogger(store, audit.ConfigFrom(&cfg.Audit), logger)
//	defer trail.Close()
//
//	trail.Log(&audit.Event{
//	    Type:    audit.EventTypeContentCreated,
//	    Outcome: audit.OutcomeSuccess,
//	    Actor:   audit.Actor{UserID: 42, Name: "ada"},
//	    Action:  "POST /api/v1/teacher/courses",
//	    Status:  201,
//	})
package audit
