// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"net/url"
)

// minJWTSecretLength is enforced in production only.
const minJWTSecretLength = 32

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateInference(); err != nil {
		return err
	}
	return c.validateMetrics()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("security.jwt_secret must be at least %d characters in production", minJWTSecretLength)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.SplitThreshold <= 0 || r.SplitThreshold >= 1 {
		return fmt.Errorf("recommend.split_threshold must be in (0,1), got %v", r.SplitThreshold)
	}
	if r.DefaultCount < 1 {
		return fmt.Errorf("recommend.default_count must be positive")
	}
	if r.MaxCount < r.DefaultCount {
		return fmt.Errorf("recommend.max_count (%d) must be >= default_count (%d)", r.MaxCount, r.DefaultCount)
	}
	if r.CacheEnabled && r.CacheTTL <= 0 {
		return fmt.Errorf("recommend.cache_ttl must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) validateInference() error {
	in := c.Inference
	for name, raw := range map[string]string{
		"inference.collaborative_url": in.CollaborativeURL,
		"inference.content_based_url": in.ContentBasedURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if in.Timeout <= 0 {
		return fmt.Errorf("inference.timeout must be positive")
	}
	if in.MaxRetries < 0 {
		return fmt.Errorf("inference.max_retries must not be negative")
	}
	if c.IsProduction() && in.APIToken == "" {
		return fmt.Errorf("inference.api_token (HF_API_TOKEN) is required in production")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	switch c.Metrics.Backend {
	case MetricsBackendMemory:
		return nil
	case MetricsBackendRedis:
		if c.Metrics.RedisAddr == "" {
			return fmt.Errorf("metrics.redis_addr is required for the redis backend")
		}
		return nil
	default:
		return fmt.Errorf("metrics.backend must be %q or %q, got %q",
			MetricsBackendMemory, MetricsBackendRedis, c.Metrics.Backend)
	}
}
