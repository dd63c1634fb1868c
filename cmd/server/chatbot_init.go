// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/supervisor"
	"github.com/tomtom215/campus/internal/supervisor/services"
)

// initChatbot creates the chat service and schedules the model warm-up on
// the data layer. The bundle itself is loaded at most once, by whichever of
// the warm-up or the first chat message gets there first.
// Returns nil if the chatbot is disabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initChatbot(cfg *config.Config, tree *supervisor.SupervisorTree, logger zerolog.Logger) *chatbot.Service {
	if !cfg.Chatbot.Enabled {
		logger.Info().Msg("Chatbot disabled (CHATBOT_ENABLED=false)")
		return nil
	}

	loader := chatbot.NewDirLoader(cfg.Chatbot.ModelDir, buildBundleOptions(cfg), logger)
	svc := chatbot.NewService(buildServiceConfig(cfg), loader, logger)

	tree.AddDataService(services.NewChatbotWarmService(svc, services.ChatbotWarmConfig{
		Required: cfg.Chatbot.RequireModel,
		ModelDir: cfg.Chatbot.ModelDir,
	}, logger))

	logger.Info().
		Str("model_dir", cfg.Chatbot.ModelDir).
		Bool("require_model", cfg.Chatbot.RequireModel).
		Dur("inference_timeout", cfg.Chatbot.InferenceTimeout).
		Msg("chatbot initialized, model warm-up scheduled")
	return svc
}

func buildBundleOptions(cfg *config.Config) chatbot.BundleOptions {
	return chatbot.BundleOptions{
		InputLength:      cfg.Chatbot.InputLength,
		FoldAccents:      cfg.Chatbot.FoldAccents,
		DefaultResponses: cfg.Chatbot.DefaultResponses,
		UnknownMessage:   cfg.Chatbot.UnknownMessage,
	}
}

func buildServiceConfig(cfg *config.Config) chatbot.ServiceConfig {
	failures := cfg.Chatbot.BreakerFailures
	if failures < 0 {
		failures = 0
	}
	return chatbot.ServiceConfig{
		InferenceTimeout:   cfg.Chatbot.InferenceTimeout,
		BreakerFailures:    uint32(failures), //nolint:gosec // bounded by config validation
		BreakerTimeout:     cfg.Chatbot.BreakerTimeout,
		EmptyMessage:       cfg.Chatbot.EmptyMessage,
		UnavailableMessage: cfg.Chatbot.UnavailableMessage,
	}
}
