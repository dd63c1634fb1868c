// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/campus/internal/metrics"
)

const breakerName = "chatbot-inference"

// ServiceConfig holds chat turn settings.
type ServiceConfig struct {
	InferenceTimeout time.Duration

	// BreakerFailures consecutive inference failures open the breaker for
	// BreakerTimeout before a trial request is let through.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	EmptyMessage       string
	UnavailableMessage string
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		InferenceTimeout:   2 * time.Second,
		BreakerFailures:    5,
		BreakerTimeout:     30 * time.Second,
		EmptyMessage:       DefaultEmptyMessage,
		UnavailableMessage: DefaultUnavailableMessage,
	}
}

// Service runs chat turns against a lazily loaded bundle.
type Service struct {
	cfg     ServiceConfig
	loader  *Loader
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

type classifyResult struct {
	tag string
	err error
}

// NewService creates a chat service. Zero fields in cfg take defaults.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewService(cfg ServiceConfig, loader *Loader, logger zerolog.Logger) *Service {
	def := DefaultServiceConfig()
	if cfg.InferenceTimeout <= 0 {
		cfg.InferenceTimeout = def.InferenceTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}
	if strings.TrimSpace(cfg.EmptyMessage) == "" {
		cfg.EmptyMessage = def.EmptyMessage
	}
	if strings.TrimSpace(cfg.UnavailableMessage) == "" {
		cfg.UnavailableMessage = def.UnavailableMessage
	}

	s := &Service{
		cfg:    cfg,
		loader: loader,
		logger: logger.With().Str("component", "chatbot").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	s.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// A caller hanging up is not a model fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] Chatbot state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return s
}

// Respond runs one chat turn. The reply is always safe to send; a non-nil
// error explains a degraded reply and is meant for logging.
func (s *Service) Respond(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		metrics.RecordChatTurn("empty")
		return s.cfg.EmptyMessage, nil
	}

	bundle, err := s.loader.Load()
	if err != nil {
		metrics.RecordChatTurn("unavailable")
		return s.cfg.UnavailableMessage, err
	}

	normalized := bundle.Normalizer.Normalize(message)
	tag, err := s.classify(ctx, bundle, normalized)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordChatTurn("rejected")
		} else {
			metrics.RecordChatTurn("error")
		}
		return s.cfg.UnavailableMessage, fmt.Errorf("classify message: %w", err)
	}

	reply, matched := bundle.Selector.choose(tag)
	if matched {
		metrics.RecordChatTurn("answered")
	} else {
		metrics.RecordChatTurn("unknown")
	}
	s.logger.Debug().Str("tag", tag).Bool("matched", matched).Int("tokens", strings.Count(normalized, " ")+1).Msg("Chat turn answered")
	return reply, nil
}

func (s *Service) classify(ctx context.Context, bundle *Bundle, normalized string) (string, error) {
	start := time.Now()
	tag, err := s.breaker.Execute(func() (string, error) {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.InferenceTimeout)
		defer cancel()

		done := make(chan classifyResult, 1)
		go func() {
			tag, err := bundle.Classifier.Classify(ctx, normalized)
			done <- classifyResult{tag: tag, err: err}
		}()

		select {
		case r := <-done:
			return r.tag, r.err
		case <-ctx.Done():
			return "", fmt.Errorf("inference: %w", ctx.Err())
		}
	})
	metrics.RecordChatInference(time.Since(start))

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(s.breaker.Counts().ConsecutiveFailures))
	}
	return tag, err
}

// Warm loads the bundle ahead of the first message.
func (s *Service) Warm(context.Context) error {
	_, err := s.loader.Load()
	return err
}

// ModelState reports the bundle load state.
func (s *Service) ModelState() LoaderState {
	return s.loader.State()
}

// BreakerState reports the inference circuit breaker state.
func (s *Service) BreakerState() string {
	return stateToString(s.breaker.State())
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
