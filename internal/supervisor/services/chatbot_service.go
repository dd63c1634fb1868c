// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// ChatbotWarmer loads the chatbot bundle. Implemented by *chatbot.Service.
type ChatbotWarmer interface {
	Warm(ctx context.Context) error
}

// ChatbotWarmConfig holds warm-up settings.
type ChatbotWarmConfig struct {
	// Required stops the whole tree when the bundle cannot be loaded.
	Required bool

	// ModelDir is only used for log context.
	ModelDir string
}

// ChatbotWarmService loads the chatbot bundle once at startup so the first
// chat message does not pay for it. The bundle loader caches its outcome,
// so the service never restarts: a failure stays a failure until the
// process is restarted with fixed artifacts.
type ChatbotWarmService struct {
	warmer ChatbotWarmer
	config ChatbotWarmConfig
	logger zerolog.Logger
	name   string
}

// NewChatbotWarmService creates the warm-up service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewChatbotWarmService(warmer ChatbotWarmer, cfg ChatbotWarmConfig, logger zerolog.Logger) *ChatbotWarmService {
	return &ChatbotWarmService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "chatbot-warm").Logger(),
		name:   "chatbot-warm",
	}
}

// Serve implements suture.Service.
func (s *ChatbotWarmService) Serve(ctx context.Context) error {
	start := time.Now()
	s.logger.Info().
		Bool("required", s.config.Required).
		Str("model_dir", s.config.ModelDir).
		Msg("warming chatbot model")

	done := make(chan error, 1)
	go func() { done <- s.warmer.Warm(ctx) }()

	var err error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err = <-done:
	}

	if err == nil {
		s.logger.Info().Dur("duration", time.Since(start)).Msg("chatbot model ready")
		return suture.ErrDoNotRestart
	}

	if s.config.Required {
		s.logger.Error().Err(err).Msg("chatbot model required but unavailable, stopping")
		return suture.ErrTerminateSupervisorTree
	}
	s.logger.Warn().Err(err).Msg("chatbot model unavailable, chat will answer with the degraded message")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer.
func (s *ChatbotWarmService) String() string {
	return s.name
}
