// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package config loads Shelfwise configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Inference InferenceConfig `koanf:"inference"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds authentication and request-limiting settings.
//
// Authentication applies to catalog writes only. The recommendation, click
// and metrics endpoints are served without identity checks.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// PolicyPath overrides the embedded Casbin policy with a CSV file.
	PolicyPath string `koanf:"policy_path"`
}

// LoggingConfig mirrors logging.Config for the file/env layers.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig locates the badger catalog store.
type CatalogConfig struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// RecommendConfig controls variant routing and identifier mapping.
type RecommendConfig struct {
	// SplitThreshold is the draw below which variant A is chosen.
	SplitThreshold float64 `koanf:"split_threshold"`

	// Seed fixes the routing RNG. Zero seeds from the clock.
	Seed int64 `koanf:"seed"`

	// DefaultCount is used when a request omits num_recommendations.
	DefaultCount int `koanf:"default_count"`

	// MaxCount bounds num_recommendations.
	MaxCount int `koanf:"max_count"`

	// CacheEnabled turns on the catalog-version keyed id-map cache.
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`

	// RefreshInterval is how often the index refresh service pre-builds
	// the id maps. Only used when CacheEnabled is set.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// InferenceConfig configures the remote scoring endpoints.
type InferenceConfig struct {
	// APIToken is the bearer credential (HF_API_TOKEN).
	APIToken string `koanf:"api_token"`

	CollaborativeURL string `koanf:"collaborative_url"`
	ContentBasedURL  string `koanf:"content_based_url"`

	// Timeout bounds a single attempt.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries is the number of extra attempts on transport errors or 5xx.
	MaxRetries   int           `koanf:"max_retries"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`

	// RateLimitQPS limits outbound calls per variant. Zero disables.
	RateLimitQPS   float64 `koanf:"rate_limit_qps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// MetricsConfig selects where CTR counters live.
type MetricsConfig struct {
	// Backend is "memory" or "redis".
	Backend        string `koanf:"backend"`
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// StreamEnabled serves live metric snapshots over websocket.
	StreamEnabled bool `koanf:"stream_enabled"`
}

// Metrics backends.
const (
	MetricsBackendMemory = "memory"
	MetricsBackendRedis  = "redis"
)

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from all layers and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
