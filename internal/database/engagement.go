// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/campus/internal/models"
	"github.com/tomtom215/campus/internal/recommend"
)

// CourseWishlistEntries returns every Course-kind wishlist entry as a
// (user, course) interaction. Resource entries are not included.
func (db *DB) CourseWishlistEntries(ctx context.Context) (_ []recommend.Interaction, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "wishlist_entries", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		"SELECT user_id, target_id FROM wishlist_entries WHERE kind = ? ORDER BY user_id, target_id",
		string(models.WishlistCourse))
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist entries: %w", err)
	}
	defer closeRows(rows)

	entries := []recommend.Interaction{}
	for rows.Next() {
		var in recommend.Interaction
		if err := rows.Scan(&in.UserID, &in.CourseID); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		entries = append(entries, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist entries: %w", err)
	}
	return entries, nil
}

// ToggleWishlist removes the (user, kind, target) entry if it exists and
// creates it otherwise. The target must exist.
func (db *DB) ToggleWishlist(ctx context.Context, userID int64, kind models.WishlistKind, targetID int64) (_ *models.WishlistToggle, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("toggle", "wishlist_entries", time.Now(), &err)

	var targetQuery string
	switch kind {
	case models.WishlistCourse:
		targetQuery = "SELECT 1 FROM courses WHERE id = ?"
	case models.WishlistResource:
		targetQuery = "SELECT 1 FROM resources WHERE id = ?"
	default:
		return nil, fmt.Errorf("unknown wishlist kind %q", kind)
	}

	toggle := &models.WishlistToggle{Kind: kind, TargetID: targetID}
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, targetQuery, string(kind), targetID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM wishlist_entries WHERE user_id = ? AND kind = ? AND target_id = ?",
			userID, string(kind), targetID)
		if err != nil {
			return fmt.Errorf("failed to delete wishlist entry: %w", err)
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if removed > 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO wishlist_entries (user_id, kind, target_id, created_at) VALUES (?, ?, ?, ?)",
			userID, string(kind), targetID, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to insert wishlist entry: %w", err)
		}
		toggle.Added = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggle, nil
}

// UpsertCourseReview creates the caller's review of a course or replaces
// its rating and comment.
func (db *DB) UpsertCourseReview(ctx context.Context, userID, courseID int64, input *models.ReviewInput) (_ *models.Review, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("upsert", "reviews", time.Now(), &err)

	var review *models.Review
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "SELECT 1 FROM courses WHERE id = ?", "course", courseID); err != nil {
			return err
		}

		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			"UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE user_id = ? AND course_id = ?",
			input.Rating, input.Comment, now, userID, courseID)
		if err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		} else if n == 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO reviews (user_id, course_id, rating, comment, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				userID, courseID, input.Rating, input.Comment, now, now); err != nil {
				return fmt.Errorf("failed to insert review: %w", err)
			}
		}

		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, course_id, resource_id, rating, comment, created_at, updated_at
			FROM reviews WHERE user_id = ? AND course_id = ?`, userID, courseID)
		r, err := scanReview(row)
		if err != nil {
			return fmt.Errorf("failed to read review: %w", err)
		}
		review = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (db *DB) listCourseReviews(ctx context.Context, courseID int64) ([]models.Review, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, course_id, resource_id, rating, comment, created_at, updated_at
		FROM reviews WHERE course_id = ?
		ORDER BY created_at DESC, id DESC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer closeRows(rows)

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

func scanReview(row rowScanner) (models.Review, error) {
	var r models.Review
	var courseID, resourceID sql.NullInt64
	if err := row.Scan(&r.ID, &r.UserID, &courseID, &resourceID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return r, err
	}
	if courseID.Valid {
		id := courseID.Int64
		r.CourseID = &id
	}
	if resourceID.Valid {
		id := resourceID.Int64
		r.ResourceID = &id
	}
	return r, nil
}
