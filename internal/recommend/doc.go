// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

// Package recommend implements user-based collaborative filtering over
// course wishlists.
//
// # Pipeline
//
// Every request recomputes from scratch:
//
//  1. BuildInteractionMatrix: binary users×courses matrix from Course
//     wishlist entries. Rows and columns are sorted by id.
//  2. CosineSimilarity: users×users cosine matrix. Zero rows score 0.
//  3. Ranker.Rank: weighted score = Mᵀ·sim[user], divided by the sum of the
//     user's similarity row, stable-sorted descending, wishlisted courses
//     removed, truncated to Limit.
//
// The matrices are request-scoped and never shared, so the package holds
// no locks. Cost is O(|users|·|courses|) memory and O(|users|²·|courses|)
// time; Config.MaxMatrixCells bounds it.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, logger)
//	result, err := engine.Recommend(ctx, userID)
//	ids := result.CourseIDs()
//
// This package does not import other internal packages. The database layer
// satisfies DataProvider.
package recommend
