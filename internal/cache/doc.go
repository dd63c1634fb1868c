// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package cache provides the short-lived in-memory cache behind the public
catalog listings (course pages and standalone resources).

Listing responses carry per-course counters (completions, wishlists,
reviews, average rating) that cost several aggregate queries per page. They
change only on writes, so the API caches them for a short TTL and clears the
whole cache after any successful write.

Clear bumps a generation counter. A reader captures Generation before it
queries the store and stores its result with SetIfGeneration, so a listing
computed before a write can never be cached after that write's Clear.

	gen := c.Generation()
	page, err := db.ListCourses(ctx, q)
	...
	c.SetIfGeneration(cache.GenerateKey("courses", q), page, gen)

Recommendations are never cached: the interaction and similarity matrices
are rebuilt on every request.
*/
package cache
