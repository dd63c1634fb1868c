// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
database_utils.go - Database Utility Functions

Context Management:
  - ensureContext(): Creates a context with 30-second timeout if none provided

Transactions:
  - withTx(): Runs a function inside a transaction, rolling back on error

Instrumentation:
  - observe(): Records query duration and errors in Prometheus

Maintenance:
  - Checkpoint(): Forces a WAL checkpoint
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/campus/internal/metrics"
)

const defaultQueryTimeout = 30 * time.Second

// ensureContext creates a context with 30-second timeout if none provided
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}

	return ctx, func() {}
}

// withTx runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back otherwise.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("failed to rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// observe records a finished query. Use as: defer db.observe("select", "courses", time.Now(), &err)
func (db *DB) observe(operation, table string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	if isDomainError(err) {
		err = nil
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// isDomainError reports whether err is a sentinel answer rather than a query failure.
func isDomainError(err error) bool {
	for _, target := range []error{sql.ErrNoRows, ErrNotFound, ErrAlreadyEnrolled, ErrNotEnrolled, ErrLessonsRemaining, ErrNotOwner} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("failed to checkpoint: %w", err)
	}
	return nil
}
