// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateChatbot(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateAudit()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "none":
		if c.Server.Environment == "production" {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be jwt or none, got %q", c.Security.AuthMode)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitRequests <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" && c.Server.Environment == "production" {
			return fmt.Errorf("CORS_ORIGINS must not contain * when ENVIRONMENT=production")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.Limit < 1 {
		return fmt.Errorf("RECOMMEND_LIMIT must be at least 1, got %d", c.Recommend.Limit)
	}
	switch c.Recommend.ZeroDivisor {
	case "skip", "zero":
	default:
		return fmt.Errorf("RECOMMEND_ZERO_DIVISOR must be skip or zero, got %q", c.Recommend.ZeroDivisor)
	}
	if c.Recommend.MaxMatrixCells < 0 {
		return fmt.Errorf("RECOMMEND_MAX_MATRIX_CELLS must be >= 0")
	}
	if c.Recommend.Timeout <= 0 {
		return fmt.Errorf("RECOMMEND_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateChatbot() error {
	if !c.Chatbot.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Chatbot.ModelDir) == "" {
		return fmt.Errorf("CHATBOT_MODEL_DIR is required when CHATBOT_ENABLED=true")
	}
	if c.Chatbot.InputLength < 0 {
		return fmt.Errorf("CHATBOT_INPUT_LENGTH must be >= 0")
	}
	if c.Chatbot.InferenceTimeout <= 0 {
		return fmt.Errorf("CHATBOT_INFERENCE_TIMEOUT must be positive")
	}
	if c.Chatbot.BreakerFailures < 1 {
		return fmt.Errorf("CHATBOT_BREAKER_FAILURES must be at least 1")
	}
	if c.Chatbot.EmptyMessage == "" || c.Chatbot.UnknownMessage == "" || c.Chatbot.UnavailableMessage == "" {
		return fmt.Errorf("chatbot fallback messages must not be empty")
	}
	if len(c.Chatbot.DefaultResponses) == 0 {
		return fmt.Errorf("CHATBOT_DEFAULT_RESPONSES must contain at least one response")
	}
	for _, r := range c.Chatbot.DefaultResponses {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("CHATBOT_DEFAULT_RESPONSES must not contain empty responses")
		}
	}
	if c.Chatbot.MessageRate <= 0 || c.Chatbot.MessageBurst < 1 {
		return fmt.Errorf("CHATBOT_MESSAGE_RATE and CHATBOT_MESSAGE_BURST must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be >= 0, got %v", c.Catalog.CacheTTL)
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be at least 1, got %d", c.Audit.RetentionDays)
	}
	if c.Audit.CleanupInterval <= 0 {
		return fmt.Errorf("AUDIT_CLEANUP_INTERVAL must be positive, got %v", c.Audit.CleanupInterval)
	}
	if c.Audit.BufferSize < 1 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be at least 1, got %d", c.Audit.BufferSize)
	}
	return nil
}
