// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package middleware provides infrastructure HTTP middleware for the chi router.

  - RequestID: X-Request-ID propagation and correlation ids for logging
  - PrometheusMetrics: api_requests_total and api_request_duration_seconds
    labelled by route pattern
  - AccessLog: one structured log line per request

The router in internal/api installs them in this order, ahead of CORS, rate
limiting and authentication:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(time.Second))

The response wrapper keeps http.Hijacker so the chat websocket can upgrade
through the stack.
*/
package middleware
