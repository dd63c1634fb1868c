// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/campus/internal/models"
)

// UpsertUser records an identity seen in a validated token. Display fields
// and groups follow the latest token; created_at keeps the first sighting.
func (db *DB) UpsertUser(ctx context.Context, user *models.User) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("upsert", "users", time.Now(), &err)

	if user == nil || user.ID <= 0 {
		return fmt.Errorf("user id is required")
	}

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO users (id, username, email, group_names, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			group_names = excluded.group_names`,
		user.ID, user.Username, user.Email, joinGroups(user.Groups), createdAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser returns a user with the optional teacher profile relation.
func (db *DB) GetUser(ctx context.Context, id int64) (_ *models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "users", time.Now(), &err)

	var (
		user      models.User
		groups    string
		profileID sql.NullInt64
		headline  sql.NullString
		bio       sql.NullString
		updatedAt sql.NullTime
	)
	err = db.conn.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.group_names, u.created_at,
			p.id, p.headline, p.bio, p.updated_at
		FROM users u
		LEFT JOIN teacher_profiles p ON p.user_id = u.id
		WHERE u.id = ?`, id).Scan(
		&user.ID, &user.Username, &user.Email, &groups, &user.CreatedAt,
		&profileID, &headline, &bio, &updatedAt,
	)
	if err != nil {
		return nil, notFound(err, "user", id)
	}

	user.Groups = splitGroups(groups)
	if profileID.Valid {
		user.TeacherProfile = &models.TeacherProfile{
			ID:        profileID.Int64,
			UserID:    user.ID,
			Headline:  headline.String,
			Bio:       bio.String,
			UpdatedAt: updatedAt.Time,
		}
	}
	return &user, nil
}

// AllUserIDs returns every known user id in ascending order.
func (db *DB) AllUserIDs(ctx context.Context) (_ []int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "users", time.Now(), &err)

	return db.queryIDs(ctx, "SELECT id FROM users ORDER BY id")
}

// GetTeacherProfile returns the profile owned by userID.
func (db *DB) GetTeacherProfile(ctx context.Context, userID int64) (_ *models.TeacherProfile, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "teacher_profiles", time.Now(), &err)

	return getTeacherProfile(ctx, db.conn, userID)
}

// UpsertTeacherProfile creates or updates the caller's teacher profile.
// The user must already exist.
func (db *DB) UpsertTeacherProfile(ctx context.Context, userID int64, input *models.TeacherProfileInput) (_ *models.TeacherProfile, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("upsert", "teacher_profiles", time.Now(), &err)

	var profile *models.TeacherProfile
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "SELECT 1 FROM users WHERE id = ?", "user", userID); err != nil {
			return err
		}

		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			"UPDATE teacher_profiles SET headline = ?, bio = ?, updated_at = ? WHERE user_id = ?",
			input.Headline, input.Bio, now, userID)
		if err != nil {
			return fmt.Errorf("failed to update teacher profile: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		} else if n == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO teacher_profiles (user_id, headline, bio, updated_at) VALUES (?, ?, ?, ?)",
				userID, input.Headline, input.Bio, now); err != nil {
				return fmt.Errorf("failed to insert teacher profile: %w", err)
			}
		}

		profile, err = getTeacherProfile(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTeacherProfile(ctx context.Context, q queryer, userID int64) (*models.TeacherProfile, error) {
	var p models.TeacherProfile
	err := q.QueryRowContext(ctx,
		"SELECT id, user_id, headline, bio, updated_at FROM teacher_profiles WHERE user_id = ?",
		userID).Scan(&p.ID, &p.UserID, &p.Headline, &p.Bio, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "teacher profile for user", userID)
	}
	return &p, nil
}

// requireRow returns ErrNotFound when query, bound to id, yields no row.
func requireRow(ctx context.Context, q queryer, query, entity string, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", entity, err)
	}
	return nil
}

func (db *DB) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer closeRows(rows)

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}
	return ids, nil
}

func joinGroups(groups []string) string {
	clean := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			clean = append(clean, g)
		}
	}
	return strings.Join(clean, ",")
}

func splitGroups(s string) []string {
	groups := []string{}
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}
