// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

// Package config loads Campus configuration from struct defaults, an
// optional YAML file and environment variables, in that order of priority.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Chatbot   ChatbotConfig   `koanf:"chatbot"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Audit     AuditConfig     `koanf:"audit"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"` // ":memory:" for an ephemeral store
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// SecurityConfig holds token validation, CORS and rate limiting settings.
type SecurityConfig struct {
	// AuthMode is "jwt" or "none". In "none" mode every request is anonymous.
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AuthzModelPath and AuthzPolicyPath replace the embedded casbin model
	// and policy when set.
	AuthzModelPath  string `koanf:"authz_model_path"`
	AuthzPolicyPath string `koanf:"authz_policy_path"`

	// DefaultRole is granted to authenticated users whose token carries
	// no groups.
	DefaultRole string `koanf:"default_role"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds collaborative-filtering settings.
type RecommendConfig struct {
	// Limit caps the number of recommended courses per request.
	Limit int `koanf:"limit"`

	// ZeroDivisor selects the behavior when a user's similarity row sums
	// to zero: "skip" returns nothing, "zero" scores every candidate 0.
	ZeroDivisor string `koanf:"zero_divisor"`

	// MaxMatrixCells bounds users*courses. 0 disables the bound.
	MaxMatrixCells int `koanf:"max_matrix_cells"`

	Timeout time.Duration `koanf:"timeout"`
}

// ChatbotConfig holds intent classifier settings.
type ChatbotConfig struct {
	Enabled  bool   `koanf:"enabled"`
	ModelDir string `koanf:"model_dir"`

	// InputLength overrides the sequence length stored in model.json. 0 keeps it.
	InputLength int `koanf:"input_length"`

	InferenceTimeout time.Duration `koanf:"inference_timeout"`

	// RequireModel aborts startup when the model bundle cannot be loaded.
	RequireModel bool `koanf:"require_model"`
	FoldAccents  bool `koanf:"fold_accents"`

	BreakerFailures int           `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	EmptyMessage       string   `koanf:"empty_message"`
	UnknownMessage     string   `koanf:"unknown_message"`
	UnavailableMessage string   `koanf:"unavailable_message"`
	DefaultResponses   []string `koanf:"default_responses"`

	// MessageRate and MessageBurst limit messages per websocket connection.
	MessageRate  float64 `koanf:"message_rate"`
	MessageBurst int     `koanf:"message_burst"`
}

// CatalogConfig holds public catalog listing settings.
type CatalogConfig struct {
	// CacheTTL is how long course and resource listings are cached.
	// Any successful write clears the cache. 0 disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// AuditConfig holds the authoring audit trail settings.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	RetentionDays   int           `koanf:"retention_days"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	BufferSize      int           `koanf:"buffer_size"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
