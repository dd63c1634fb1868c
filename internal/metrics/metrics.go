// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // ok, empty, zero_divisor, error
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent building matrices and ranking courses",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
	)

	RecommendationMatrixCells = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_matrix_cells",
			Help: "Cells in the most recent interaction matrix",
		},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendations_returned",
			Help:    "Number of courses returned per recommendation request",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)

	// Chatbot Metrics
	ChatbotTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_turns_total",
			Help: "Total number of chat turns by outcome",
		},
		[]string{"outcome"}, // answered, unknown, empty, unavailable, error
	)

	ChatbotInferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatbot_inference_duration_seconds",
			Help:    "Duration of tokenization and model forward pass",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
	)

	ChatbotModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbot_model_loaded",
			Help: "1 when the chatbot bundle is loaded, 0 otherwise",
		},
	)

	ChatbotModelLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatbot_model_load_duration_seconds",
			Help:    "Time spent loading the chatbot bundle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Authentication and authorization Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of token validations by result",
		},
		[]string{"result"}, // success, missing, invalid, expired
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"check", "decision"},
	)

	// Audit Metrics
	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit events by type and result",
		},
		[]string{"type", "result"}, // stored, dropped, failed
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAuth records the result of one token validation.
func RecordAuth(result string) {
	AuthAttempts.WithLabelValues(result).Inc()
}

// RecordAuthzDecision records an authorization decision for a named check.
func RecordAuthzDecision(check string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	AuthzDecisions.WithLabelValues(check, decision).Inc()
}

// RecordRecommendation records one recommendation request. outcome is one
// of ok, empty, zero_divisor or error; cells and returned are ignored on error.
func RecordRecommendation(outcome string, duration time.Duration, cells, returned int) {
	RecommendationRequests.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if outcome == "error" {
		return
	}
	RecommendationMatrixCells.Set(float64(cells))
	RecommendationsReturned.Observe(float64(returned))
}

// RecordChatTurn records the outcome of one chat turn.
func RecordChatTurn(outcome string) {
	ChatbotTurns.WithLabelValues(outcome).Inc()
}

// RecordChatInference records the duration of one classification.
func RecordChatInference(duration time.Duration) {
	ChatbotInferenceDuration.Observe(duration.Seconds())
}

// RecordModelLoad records a bundle load attempt.
func RecordModelLoad(duration time.Duration, err error) {
	ChatbotModelLoadDuration.Observe(duration.Seconds())
	if err != nil {
		ChatbotModelLoaded.Set(0)
		return
	}
	ChatbotModelLoaded.Set(1)
}

// RecordAuditEvent records what happened to one audit event.
func RecordAuditEvent(eventType, result string) {
	AuditEvents.WithLabelValues(eventType, result).Inc()
}
