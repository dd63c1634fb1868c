// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/campus/config.yaml",
	"/etc/campus/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/campus.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			DefaultRole:       "student",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			Limit:          2,
			ZeroDivisor:    "skip",
			MaxMatrixCells: 25_000_000,
			Timeout:        5 * time.Second,
		},
		Chatbot: ChatbotConfig{
			Enabled:            true,
			ModelDir:           "/data/chatbot",
			InputLength:        0,
			InferenceTimeout:   2 * time.Second,
			RequireModel:       false,
			FoldAccents:        false,
			BreakerFailures:    5,
			BreakerTimeout:     30 * time.Second,
			EmptyMessage:       "Please enter a valid message.",
			UnknownMessage:     "Sorry, I don't understand your message.",
			UnavailableMessage: "The assistant is unavailable right now. Please try again later.",
			DefaultResponses:   []string{"I'm still learning about that.", "I don't understand."},
			MessageRate:        2,
			MessageBurst:       5,
		},
		Catalog: CatalogConfig{
			CacheTTL: 30 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:         true,
			RetentionDays:   90,
			CleanupInterval: 24 * time.Hour,
			BufferSize:      1000,
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// HTTP_PORT -> server.port, RECOMMEND_LIMIT -> recommend.limit, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"chatbot.default_responses",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"authz_model_path":    "security.authz_model_path",
	"authz_policy_path":   "security.authz_policy_path",
	"default_role":        "security.default_role",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"recommend_limit":            "recommend.limit",
	"recommend_zero_divisor":     "recommend.zero_divisor",
	"recommend_max_matrix_cells": "recommend.max_matrix_cells",
	"recommend_timeout":          "recommend.timeout",

	"chatbot_enabled":             "chatbot.enabled",
	"chatbot_model_dir":           "chatbot.model_dir",
	"chatbot_input_length":        "chatbot.input_length",
	"chatbot_inference_timeout":   "chatbot.inference_timeout",
	"chatbot_require_model":       "chatbot.require_model",
	"chatbot_fold_accents":        "chatbot.fold_accents",
	"chatbot_breaker_failures":    "chatbot.breaker_failures",
	"chatbot_breaker_timeout":     "chatbot.breaker_timeout",
	"chatbot_empty_message":       "chatbot.empty_message",
	"chatbot_unknown_message":     "chatbot.unknown_message",
	"chatbot_unavailable_message": "chatbot.unavailable_message",
	"chatbot_default_responses":   "chatbot.default_responses",
	"chatbot_message_rate":        "chatbot.message_rate",
	"chatbot_message_burst":       "chatbot.message_burst",

	"catalog_cache_ttl": "catalog.cache_ttl",

	"audit_enabled":          "audit.enabled",
	"audit_retention_days":   "audit.retention_days",
	"audit_cleanup_interval": "audit.cleanup_interval",
	"audit_buffer_size":      "audit.buffer_size",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
