// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/recommend"
)

// initRecommend creates the collaborative-filtering engine over the catalog
// store. It returns nil when the configuration is rejected, in which case
// pages render without recommendations.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, provider recommend.DataProvider, logger zerolog.Logger) *recommend.Engine {
	engineCfg := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(engineCfg, provider, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create recommendation engine, recommendations disabled")
		return nil
	}

	logger.Info().
		Int("limit", engineCfg.Limit).
		Str("zero_divisor", string(engineCfg.ZeroDivisor)).
		Int("max_matrix_cells", engineCfg.MaxMatrixCells).
		Dur("timeout", cfg.Recommend.Timeout).
		Msg("recommendation engine initialized")
	return engine
}

// buildEngineConfig maps application config onto the engine config,
// keeping engine defaults for unset values.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	if cfg.Recommend.Limit > 0 {
		engineCfg.Limit = cfg.Recommend.Limit
	}
	if cfg.Recommend.ZeroDivisor != "" {
		engineCfg.ZeroDivisor = recommend.ZeroDivisorPolicy(cfg.Recommend.ZeroDivisor)
	}
	if cfg.Recommend.MaxMatrixCells >= 0 {
		engineCfg.MaxMatrixCells = cfg.Recommend.MaxMatrixCells
	}
	return engineCfg
}
