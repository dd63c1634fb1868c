// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/recommend"
	"github.com/tomtom215/campus/internal/supervisor"
)

type emptyProvider struct{}

func (emptyProvider) AllUserIDs(context.Context) ([]int64, error)   { return nil, nil }
func (emptyProvider) AllCourseIDs(context.Context) ([]int64, error) { return nil, nil }
func (emptyProvider) CourseWishlistEntries(context.Context) ([]recommend.Interaction, error) {
	return nil, nil
}

func TestBuildEngineConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	got := buildEngineConfig(cfg)
	if got.Limit != 2 || got.ZeroDivisor != recommend.ZeroDivisorSkip {
		t.Errorf("defaults = %+v", got)
	}

	cfg.Recommend = config.RecommendConfig{Limit: 5, ZeroDivisor: "zero", MaxMatrixCells: 100}
	got = buildEngineConfig(cfg)
	if got.Limit != 5 || got.ZeroDivisor != recommend.ZeroDivisorZero || got.MaxMatrixCells != 100 {
		t.Errorf("overrides = %+v", got)
	}
}

func TestInitRecommend(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Recommend: config.RecommendConfig{Limit: 2, ZeroDivisor: "skip"}}
	engine := initRecommend(cfg, emptyProvider{}, zerolog.Nop())
	if engine == nil {
		t.Fatal("initRecommend returned nil")
	}
	res, err := engine.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Courses) != 0 {
		t.Errorf("Courses = %v, want none without data", res.Courses)
	}

	cfg.Recommend.ZeroDivisor = "average"
	if initRecommend(cfg, emptyProvider{}, zerolog.Nop()) != nil {
		t.Error("invalid zero divisor policy should disable the engine")
	}
}

func TestInitChatbot(t *testing.T) {
	t.Parallel()

	tree, err := supervisor.NewSupervisorTree(slog.New(slog.NewTextHandler(io.Discard, nil)), supervisor.TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}

	if initChatbot(&config.Config{}, tree, zerolog.Nop()) != nil {
		t.Error("disabled chatbot should return nil")
	}

	cfg := &config.Config{Chatbot: config.ChatbotConfig{
		Enabled:          true,
		ModelDir:         t.TempDir(),
		InferenceTimeout: time.Second,
		BreakerFailures:  3,
	}}
	svc := initChatbot(cfg, tree, zerolog.Nop())
	if svc == nil {
		t.Fatal("initChatbot returned nil")
	}

	reply, err := svc.Respond(context.Background(), "hello")
	if !errors.Is(err, chatbot.ErrModelUnavailable) {
		t.Errorf("Respond error = %v, want ErrModelUnavailable for an empty model dir", err)
	}
	if !strings.EqualFold(reply, chatbot.DefaultUnavailableMessage) {
		t.Errorf("reply = %q, want the unavailable message", reply)
	}
}

func TestBuildServiceConfig_NegativeFailures(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Chatbot: config.ChatbotConfig{BreakerFailures: -1}}
	if got := buildServiceConfig(cfg).BreakerFailures; got != 0 {
		t.Errorf("BreakerFailures = %d, want 0", got)
	}
}

func TestInitAudit(t *testing.T) {
	t.Parallel()

	tree, err := supervisor.NewSupervisorTree(slog.New(slog.NewTextHandler(io.Discard, nil)), supervisor.TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	disabled, err := initAudit(ctx, &config.Config{}, db.Conn(), tree, zerolog.Nop())
	if err != nil || disabled != nil {
		t.Fatalf("disabled audit = %v, %v; want nil, nil", disabled, err)
	}

	cfg := &config.Config{Audit: config.AuditConfig{Enabled: true, RetentionDays: 7, CleanupInterval: time.Hour, BufferSize: 10}}
	trail, err := initAudit(ctx, cfg, db.Conn(), tree, zerolog.Nop())
	if err != nil {
		t.Fatalf("initAudit: %v", err)
	}
	t.Cleanup(func() { _ = trail.Close() })

	if _, err := trail.Purge(ctx); err != nil {
		t.Errorf("Purge on a fresh table: %v", err)
	}
}
