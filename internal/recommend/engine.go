// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/metrics"
)

// Engine loads interactions from a DataProvider and ranks courses on demand.
// It is safe for concurrent use; each call builds its own matrices.
type Engine struct {
	cfg      *Config
	provider DataProvider
	ranker   Ranker
	logger   zerolog.Logger

	requests     atomic.Int64
	failures     atomic.Int64
	zeroDivisors atomic.Int64
	lastDuration atomic.Int64
}

// EngineStats are cumulative counters since the engine was created.
type EngineStats struct {
	Requests     int64         `json:"requests"`
	Failures     int64         `json:"failures"`
	ZeroDivisors int64         `json:"zero_divisors"`
	LastDuration time.Duration `json:"last_duration"`
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewEngine(cfg *Config, provider DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("data provider is required")
	}
	return &Engine{
		cfg:      cfg,
		provider: provider,
		ranker:   Ranker{Limit: cfg.Limit, ZeroDivisor: cfg.ZeroDivisor},
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend returns up to Config.Limit courses for userID.
func (e *Engine) Recommend(ctx context.Context, userID int64) (*Result, error) {
	start := time.Now()
	e.requests.Add(1)

	result, err := e.recommend(ctx, userID)
	elapsed := time.Since(start)
	e.lastDuration.Store(int64(elapsed))
	if err != nil {
		e.failures.Add(1)
		metrics.RecordRecommendation("error", elapsed, 0, 0)
		return nil, err
	}
	result.Duration = elapsed
	if result.ZeroDivisor {
		e.zeroDivisors.Add(1)
	}
	metrics.RecordRecommendation(outcome(result), elapsed, result.MatrixUsers*result.MatrixCourses, len(result.Courses))

	e.logger.Debug().
		Int64("user_id", userID).
		Int("users", result.MatrixUsers).
		Int("courses", result.MatrixCourses).
		Int("returned", len(result.Courses)).
		Bool("zero_divisor", result.ZeroDivisor).
		Dur("duration", elapsed).
		Msg("Generated recommendations")

	return result, nil
}

func (e *Engine) recommend(ctx context.Context, userID int64) (*Result, error) {
	users, err := e.provider.AllUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	courses, err := e.provider.AllCourseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get courses: %w", err)
	}
	if limit := e.cfg.MaxMatrixCells; limit > 0 && len(users)*len(courses) > limit {
		return nil, fmt.Errorf("%w: %d users x %d courses", ErrMatrixTooLarge, len(users), len(courses))
	}
	entries, err := e.provider.CourseWishlistEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("get wishlist entries: %w", err)
	}
	eligible, err := e.eligibleCourses(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix := BuildInteractionMatrix(users, courses, entries)
	rows, cols := matrix.Dims()
	result := &Result{UserID: userID, MatrixUsers: rows, MatrixCourses: cols, Courses: []ScoredCourse{}}
	if matrix.Empty() {
		return result, nil
	}

	sim := CosineSimilarity(matrix)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked, zero := e.ranker.RankEligible(matrix, sim, userID, eligible)
	if ranked != nil {
		result.Courses = ranked
	}
	result.ZeroDivisor = zero
	return result, nil
}

// eligibleCourses returns nil, meaning every course, unless the provider
// implements EligibilitySource.
func (e *Engine) eligibleCourses(ctx context.Context) (map[int64]struct{}, error) {
	src, ok := e.provider.(EligibilitySource)
	if !ok {
		return nil, nil
	}
	ids, err := src.ActiveCourseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active courses: %w", err)
	}
	eligible := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		eligible[id] = struct{}{}
	}
	return eligible, nil
}

func outcome(r *Result) string {
	switch {
	case r.ZeroDivisor:
		return "zero_divisor"
	case len(r.Courses) == 0:
		return "empty"
	default:
		return "ok"
	}
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Requests:     e.requests.Load(),
		Failures:     e.failures.Load(),
		ZeroDivisors: e.zeroDivisors.Load(),
		LastDuration: time.Duration(e.lastDuration.Load()),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.cfg
}
