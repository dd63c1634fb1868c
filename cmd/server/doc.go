// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package main is the entry point for the Campus server.

Campus serves a course catalog with enrollment, lesson progress, reviews,
wishlists and teacher authoring over a JSON API. It adds two data-driven
features: user-based collaborative-filtering course recommendations and an
intent-classification study assistant.

# Application Architecture

	RootSupervisor ("campus")
	├── DataSupervisor ("data-layer")
	│   └── ChatbotWarmService (if CHATBOT_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (chat sockets)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB catalog store
 4. Authentication: JWT validation or anonymous mode
 5. Authorization: casbin role policy and teacher-profile guard
 6. Recommendation engine and chatbot service
 7. Supervisor tree and HTTP server

# Configuration

	# Server
	HTTP_PORT=3857
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/campus.duckdb

	# Authentication
	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>       # shared with the identity service

	# Recommendations
	RECOMMEND_LIMIT=2
	RECOMMEND_ZERO_DIVISOR=skip  # skip or zero

	# Chatbot
	CHATBOT_MODEL_DIR=/data/chatbot
	CHATBOT_REQUIRE_MODEL=false

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT, chat sockets are closed, and the database is closed
last.
*/
package main
