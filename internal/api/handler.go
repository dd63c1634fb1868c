// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/cache"
	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/recommend"
	ws "github.com/tomtom215/campus/internal/websocket"
)

// Recommender ranks courses for a user. Implemented by *recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, userID int64) (*recommend.Result, error)
}

// ChatResponder answers chat turns. Implemented by *chatbot.Service.
type ChatResponder interface {
	Respond(ctx context.Context, message string) (string, error)
	ModelState() chatbot.LoaderState
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handler.go: Handler struct and constructor (this file)
//   - catalog_cache.go: listing cache and write invalidation
//   - audit_trail.go: authoring audit middleware and activity feed
//   - helpers.go: response, decoding and parameter helpers
//   - handlers_health.go: liveness and readiness probes
//   - handlers_chat.go: chat over HTTP and websocket
//   - handlers_courses.go: catalog, enrollment, lessons and recommendations
//   - handlers_resources.go: standalone resources
//   - handlers_teacher.go: teacher profile and course authoring
type Handler struct {
	db          *database.DB
	recommender Recommender
	chat        ChatResponder
	wsHub       *ws.Hub
	catalog     *cache.Cache // nil when CATALOG_CACHE_TTL=0
	audit       Auditor      // nil when AUDIT_ENABLED=false
	config      *config.Config
	startTime   time.Time
	logger      zerolog.Logger
}

// NewHandler creates the API handler. recommender and chat may be nil: the
// catalog then serves without recommendations and chat answers with the
// unavailable message.
//
//nolint:gocritic // logger passed by value to match zerolog.With() usage
func NewHandler(db *database.DB, recommender Recommender, chat ChatResponder, wsHub *ws.Hub, cfg *config.Config, logger zerolog.Logger) *Handler {
	if wsHub == nil {
		wsHub = ws.NewHub()
	}
	h := &Handler{
		db:          db,
		recommender: recommender,
		chat:        chat,
		wsHub:       wsHub,
		config:      cfg,
		startTime:   time.Now(),
		logger:      logger.With().Str("component", "api").Logger(),
	}
	if cfg != nil && cfg.Catalog.CacheTTL > 0 {
		h.catalog = cache.New(cfg.Catalog.CacheTTL)
	}
	return h
}

// Close releases handler resources. The database is owned by the caller.
func (h *Handler) Close() {
	if h.catalog != nil {
		h.catalog.Stop()
	}
}
