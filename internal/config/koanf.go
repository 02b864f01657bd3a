// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

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
	"/etc/shelfwise/config.yaml",
	"/etc/shelfwise/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			TokenTTL:        24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path: "/data/catalog",
		},
		Recommend: RecommendConfig{
			SplitThreshold:  0.5,
			DefaultCount:    5,
			MaxCount:        100,
			CacheTTL:        10 * time.Minute,
			RefreshInterval: time.Minute,
		},
		Inference: InferenceConfig{
			CollaborativeURL: "https://tlrzvg4ssn69uxzy.us-east-1.aws.endpoints.huggingface.cloud",
			ContentBasedURL:  "https://oj0jhtqo7z7orgme.us-east-1.aws.endpoints.huggingface.cloud",
			Timeout:          10 * time.Second,
			MaxRetries:       1,
			RetryBackoff:     200 * time.Millisecond,
			RateLimitBurst:   10,
			BreakerEnabled:   true,
		},
		Metrics: MetricsConfig{
			Backend:        MetricsBackendMemory,
			RedisAddr:      "localhost:6379",
			RedisKeyPrefix: "shelfwise:ctr",
			StreamEnabled:  true,
		},
	}
}

// LoadWithKoanf layers struct defaults, an optional YAML file and mapped
// environment variables, then unmarshals and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

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
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"authz_policy_path":   "security.policy_path",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"catalog_path":      "catalog.path",
	"catalog_in_memory": "catalog.in_memory",

	"ab_split_threshold":         "recommend.split_threshold",
	"ab_seed":                    "recommend.seed",
	"recommend_default_count":    "recommend.default_count",
	"recommend_max_count":        "recommend.max_count",
	"recommend_cache_enabled":    "recommend.cache_enabled",
	"recommend_cache_ttl":        "recommend.cache_ttl",
	"recommend_refresh_interval": "recommend.refresh_interval",

	"hf_api_token":                "inference.api_token",
	"inference_collaborative_url": "inference.collaborative_url",
	"inference_content_url":       "inference.content_based_url",
	"inference_timeout":           "inference.timeout",
	"inference_max_retries":       "inference.max_retries",
	"inference_retry_backoff":     "inference.retry_backoff",
	"inference_rate_limit_qps":    "inference.rate_limit_qps",
	"inference_rate_limit_burst":  "inference.rate_limit_burst",
	"inference_breaker_enabled":   "inference.breaker_enabled",

	"metrics_backend":        "metrics.backend",
	"redis_addr":             "metrics.redis_addr",
	"redis_password":         "metrics.redis_password",
	"redis_db":               "metrics.redis_db",
	"redis_key_prefix":       "metrics.redis_key_prefix",
	"metrics_stream_enabled": "metrics.stream_enabled",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
