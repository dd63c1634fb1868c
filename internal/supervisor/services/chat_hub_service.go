// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ChatHub is satisfied by *websocket.Hub.
type ChatHub interface {
	RunWithContext(ctx context.Context) error
	GetClientCount() int
}

// errHubReturned is reported when the hub stops while the tree is running.
var errHubReturned = errors.New("chat hub returned before shutdown")

// ChatHubService runs the chat websocket hub. The hub closes every open
// chat connection when ctx is canceled. Any earlier return is an error so
// suture restarts the hub.
type ChatHubService struct {
	hub    ChatHub
	logger zerolog.Logger
	name   string
}

// NewChatHubService wraps hub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewChatHubService(hub ChatHub, logger zerolog.Logger) *ChatHubService {
	return &ChatHubService{
		hub:    hub,
		logger: logger.With().Str("service", "chat-hub").Logger(),
		name:   "chat-hub",
	}
}

// Serve implements suture.Service.
func (s *ChatHubService) Serve(ctx context.Context) error {
	if n := s.hub.GetClientCount(); n > 0 {
		s.logger.Warn().Int("connections", n).Msg("chat hub restarted with open connections")
	}

	err := s.hub.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errHubReturned
	}
	return fmt.Errorf("chat hub: %w", err)
}

// String implements fmt.Stringer.
func (s *ChatHubService) String() string {
	return s.name
}
