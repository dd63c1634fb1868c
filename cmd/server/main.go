// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/campus/internal/api"
	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/authz"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/logging"
	"github.com/tomtom215/campus/internal/supervisor"
	"github.com/tomtom215/campus/internal/supervisor/services"
	ws "github.com/tomtom215/campus/internal/websocket"
)

//nolint:gocyclo // sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "campus",
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("chatbot_enabled", cfg.Chatbot.Enabled).
		Int("recommend_limit", cfg.Recommend.Limit).
		Bool("audit_enabled", cfg.Audit.Enabled).
		Msg("Starting Campus with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	mode, err := auth.ParseAuthMode(cfg.Security.AuthMode)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid auth mode")
	}
	var jwtManager *auth.JWTManager
	if mode == auth.AuthModeJWT {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Every request is anonymous. Enrollment, wishlists,")
		logging.Warn().Msg("  recommendations and teacher tools answer 401.")
		logging.Warn().Msg("============================================================")
	}

	authMW, err := auth.NewMiddleware(jwtManager, mode, db, logging.WithComponent("auth"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize auth middleware")
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFrom(&cfg.Security))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	guard := authz.NewGuard(enforcer, db, logging.WithComponent("authz"))

	trail, err := initAudit(ctx, cfg, db.Conn(), tree, logging.WithComponent("audit"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize audit trail")
	}
	if trail != nil {
		defer func() {
			if err := trail.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing audit trail")
			}
		}()
		guard.SetAuditor(trail)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" && mode == auth.AuthModeJWT {
			logging.Warn().Msg("CORS allows any origin while authentication is enabled; set CORS_ORIGINS explicitly in production")
			break
		}
	}

	recommender := initRecommend(cfg, db, logging.WithComponent("recommend"))
	chat := initChatbot(cfg, tree, logging.WithComponent("chatbot"))

	wsHub := ws.NewHub()

	// Keep nil interfaces nil so the handler falls back cleanly.
	var recommenderDep api.Recommender
	if recommender != nil {
		recommenderDep = recommender
	}
	var chatDep api.ChatResponder
	if chat != nil {
		chatDep = chat
	}
	handler := api.NewHandler(db, recommenderDep, chatDep, wsHub, cfg, logging.Logger())
	defer handler.Close()
	if trail != nil {
		handler.SetAuditor(trail)
	}

	router := api.NewRouter(handler, authMW, guard, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddMessagingService(services.NewChatHubService(wsHub, logging.WithComponent("websocket")))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
