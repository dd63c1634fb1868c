// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package auth validates the HS256 tokens minted by the identity service and
places the caller on the request context.

# Modes

  - none: every request is anonymous; routes behind Require answer 401
  - jwt: Bearer tokens from the Authorization header or the "token" cookie

# Usage

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	mw, err := auth.NewMiddleware(jwtManager, auth.AuthModeJWT, db, logger)

	r.With(mw.Optional).Get("/api/v1/courses", h.ListCourses)
	r.With(mw.Require).Post("/api/v1/courses/{courseID}/enroll", h.Enroll)

	subject := auth.GetSubject(r.Context()) // nil when anonymous

The sub claim carries the numeric user id. Group claims become casbin roles
in package authz. Validated accounts are upserted through UserRecorder the
first time their claims are seen, which keeps the recommender's user set
current.
*/
package auth
