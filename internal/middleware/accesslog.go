// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/campus/internal/logging"
)

// AccessLog logs one line per request through logging.Ctx, so request and
// user ids set by earlier middleware are included. Requests slower than
// slow are logged at warn, server errors at error, the rest at debug.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			switch {
			case sw.status >= http.StatusInternalServerError:
				event = logger.Error()
			case slow > 0 && duration > slow:
				event = logger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", sw.status).
				Int64("bytes", sw.written).
				Dur("duration", duration).
				Msg("Request handled")
		})
	}
}
