// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package services adapts Campus components to the suture.Service interface.

	type Service interface {
	    Serve(ctx context.Context) error
	}

Wrappers:

  - HTTPServerService runs an *http.Server and shuts it down gracefully
    when the context is canceled.
  - ChatHubService runs the chat websocket hub, which closes every
    client on shutdown. An early return from the hub is an error.
  - ChatbotWarmService loads the chatbot model bundle ahead of the first
    chat message. It runs once, and stops the tree when the model is
    required and cannot be loaded.
  - AuditRetentionService purges expired audit events on an interval.

Each wrapper implements fmt.Stringer so supervisor log lines name it.
The packages they wrap are reached through small interfaces so the
wrappers stay testable without a database or model files.
*/
package services
