// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults with secret", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "HTTP_PORT"},
		{name: "bad environment", mutate: func(c *Config) { c.Server.Environment = "qa" }, wantErr: "ENVIRONMENT"},
		{name: "empty db path", mutate: func(c *Config) { c.Database.Path = " " }, wantErr: "DUCKDB_PATH"},
		{name: "short secret", mutate: func(c *Config) { c.Security.JWTSecret = "short" }, wantErr: "JWT_SECRET"},
		{name: "unknown auth mode", mutate: func(c *Config) { c.Security.AuthMode = "basic" }, wantErr: "AUTH_MODE"},
		{name: "no auth in production", mutate: func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, wantErr: "AUTH_MODE=none"},
		{name: "no auth in development", mutate: func(c *Config) {
			c.Security.AuthMode = "none"
			c.Security.JWTSecret = ""
		}},
		{name: "wildcard cors in production", mutate: func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, wantErr: "CORS_ORIGINS"},
		{name: "rate limit window", mutate: func(c *Config) { c.Security.RateLimitWindow = 0 }, wantErr: "RATE_LIMIT_WINDOW"},
		{name: "rate limit disabled skips checks", mutate: func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitWindow = 0
		}},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "LOG_LEVEL"},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "recommend limit", mutate: func(c *Config) { c.Recommend.Limit = 0 }, wantErr: "RECOMMEND_LIMIT"},
		{name: "zero divisor policy", mutate: func(c *Config) { c.Recommend.ZeroDivisor = "nan" }, wantErr: "RECOMMEND_ZERO_DIVISOR"},
		{name: "chatbot model dir", mutate: func(c *Config) { c.Chatbot.ModelDir = "" }, wantErr: "CHATBOT_MODEL_DIR"},
		{name: "chatbot disabled skips checks", mutate: func(c *Config) {
			c.Chatbot.Enabled = false
			c.Chatbot.ModelDir = ""
		}},
		{name: "negative catalog cache ttl", mutate: func(c *Config) { c.Catalog.CacheTTL = -time.Second }, wantErr: "CATALOG_CACHE_TTL"},
		{name: "catalog cache disabled", mutate: func(c *Config) { c.Catalog.CacheTTL = 0 }},
		{name: "zero audit retention", mutate: func(c *Config) { c.Audit.RetentionDays = 0 }, wantErr: "AUDIT_RETENTION_DAYS"},
		{name: "zero audit buffer", mutate: func(c *Config) { c.Audit.BufferSize = 0 }, wantErr: "AUDIT_BUFFER_SIZE"},
		{name: "zero audit cleanup interval", mutate: func(c *Config) { c.Audit.CleanupInterval = 0 }, wantErr: "AUDIT_CLEANUP_INTERVAL"},
		{name: "audit disabled skips checks", mutate: func(c *Config) { c.Audit.Enabled = false; c.Audit.BufferSize = 0 }},
		{name: "chatbot default responses", mutate: func(c *Config) { c.Chatbot.DefaultResponses = nil }, wantErr: "CHATBOT_DEFAULT_RESPONSES"},
		{name: "chatbot blank default response", mutate: func(c *Config) { c.Chatbot.DefaultResponses = []string{" "} }, wantErr: "CHATBOT_DEFAULT_RESPONSES"},
		{name: "chatbot timeout", mutate: func(c *Config) { c.Chatbot.InferenceTimeout = 0 }, wantErr: "CHATBOT_INFERENCE_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
