// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Database:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

Recommendations:
  - recommendation_requests_total{outcome}
  - recommendation_duration_seconds
  - recommendation_matrix_cells
  - recommendations_returned

Chatbot:
  - chatbot_turns_total{outcome}
  - chatbot_inference_duration_seconds
  - chatbot_model_loaded
  - chatbot_model_load_duration_seconds

Access control:
  - auth_attempts_total{result}
  - authz_decisions_total{check,decision}

Circuit breakers:
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

WebSocket:
  - websocket_connections
  - websocket_messages_received_total
  - websocket_messages_sent_total
  - websocket_errors_total{error_type}

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "courses", time.Since(start), err)
*/
package metrics
