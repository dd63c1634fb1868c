// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/audit"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/supervisor"
	"github.com/tomtom215/campus/internal/supervisor/services"
)

// initAudit creates the audit_events table, starts the audit writer and
// schedules retention on the data layer. Returns nil if auditing is
// disabled. The caller closes the logger after the tree stops.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initAudit(ctx context.Context, cfg *config.Config, conn *sql.DB, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*audit.Logger, error) {
	if !cfg.Audit.Enabled {
		logger.Info().Msg("Audit trail disabled (AUDIT_ENABLED=false)")
		return nil, nil
	}

	store := audit.NewDuckDBStore(conn)
	if err := store.CreateTable(ctx); err != nil {
		return nil, fmt.Errorf("audit schema: %w", err)
	}

	trail := audit.NewLogger(store, audit.ConfigFrom(&cfg.Audit), logger)
	tree.AddDataService(services.NewAuditRetentionService(trail, cfg.Audit.CleanupInterval, logger))

	logger.Info().
		Int("retention_days", cfg.Audit.RetentionDays).
		Dur("cleanup_interval", cfg.Audit.CleanupInterval).
		Msg("audit trail initialized")
	return trail, nil
}
