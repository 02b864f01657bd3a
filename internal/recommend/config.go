// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"fmt"
	"time"
)

// Config contains the recommendation service settings.
type Config struct {
	// SplitThreshold is the draw below which variant A is chosen.
	// It is fixed for the lifetime of the service.
	SplitThreshold float64 `json:"split_threshold"`

	// Seed is the router RNG seed. Zero seeds from the clock.
	Seed int64 `json:"seed"`

	// Cache contains the index map snapshot cache parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig controls the index map snapshot cache.
type CacheConfig struct {
	// Enabled turns the cache on. Disabled means maps are built per request.
	Enabled bool `json:"enabled"`

	// TTL bounds how long an unused snapshot is retained.
	TTL time.Duration `json:"ttl"`

	// MaxEntries bounds the total number of map entries held across all
	// cached snapshots.
	MaxEntries int64 `json:"max_entries"`
}

// DefaultConfig returns an even split with caching disabled.
func DefaultConfig() *Config {
	return &Config{
		SplitThreshold: 0.5,
		Cache: CacheConfig{
			Enabled:    false,
			TTL:        10 * time.Minute,
			MaxEntries: 1 << 22,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SplitThreshold < 0 || c.SplitThreshold > 1 {
		return fmt.Errorf("split_threshold must be within [0, 1], got %v", c.SplitThreshold)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive when the cache is enabled")
		}
	}
	return nil
}
