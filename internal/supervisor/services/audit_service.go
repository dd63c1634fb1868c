// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// AuditPurger deletes expired audit events. Implemented by *audit.Logger.
type AuditPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// AuditRetentionService purges expired audit events on a fixed interval.
// A failed purge is logged and retried on the next tick.
type AuditRetentionService struct {
	purger   AuditPurger
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewAuditRetentionService creates the retention service. Non-positive
// intervals use 24h.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAuditRetentionService(purger AuditPurger, interval time.Duration, logger zerolog.Logger) *AuditRetentionService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &AuditRetentionService{
		purger:   purger,
		interval: interval,
		logger:   logger.With().Str("service", "audit-retention").Logger(),
		name:     "audit-retention",
	}
}

// Serve implements suture.Service. It purges once at startup, then on
// every tick until ctx is canceled.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.purge(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *AuditRetentionService) purge(ctx context.Context) {
	count, err := s.purger.Purge(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("Audit cleanup error")
		}
		return
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Cleaned up old audit events")
	}
}

// String implements fmt.Stringer.
func (s *AuditRetentionService) String() string {
	return s.name
}
