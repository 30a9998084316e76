// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package summary

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultMaxCacheSize is the default optimized-cache capacity.
	DefaultMaxCacheSize = 1000

	// DefaultTTL is the default entry lifetime. Zero disables expiry.
	DefaultTTL = 5 * time.Minute

	// DefaultBatchSize is the default batch size for bulk calculation.
	DefaultBatchSize = 50
)

// Config configures an OptimizedCalculator.
type Config struct {
	// MaxCacheSize caps the number of cached summaries. When exceeded,
	// the oldest 25% of entries by last access are evicted.
	MaxCacheSize int

	// TTL is how long a cached summary stays valid. Zero disables expiry.
	TTL time.Duration

	// BatchSize is how many items BatchCalculateSummaries processes per
	// batch. Pacing only; results are unaffected.
	BatchSize int

	// EnableIncremental enables dependency-graph-driven incremental
	// recalculation. When false, IncrementalUpdate recalculates the full
	// item universe.
	EnableIncremental bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxCacheSize:      DefaultMaxCacheSize,
		TTL:               DefaultTTL,
		BatchSize:         DefaultBatchSize,
		EnableIncremental: true,
	}
}

// yamlConfig is the wire form of Config. TTL is a duration string
// ("30s", "5m") since yaml.v3 has no native time.Duration decoding.
type yamlConfig struct {
	MaxCacheSize      *int    `yaml:"max_cache_size"`
	TTL               *string `yaml:"ttl"`
	BatchSize         *int    `yaml:"batch_size"`
	EnableIncremental *bool   `yaml:"enable_incremental"`
}

// LoadConfig parses a YAML document over the defaults.
//
// Keys absent from the document keep their default values.
//
// Outputs:
//
//	Config - The merged configuration.
//	error - Wraps the YAML error or ErrInvalidConfig.
func LoadConfig(data []byte) (Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.MaxCacheSize != nil {
		cfg.MaxCacheSize = *raw.MaxCacheSize
	}
	if raw.TTL != nil {
		ttl, err := time.ParseDuration(*raw.TTL)
		if err != nil {
			return Config{}, fmt.Errorf("parse ttl: %w", err)
		}
		cfg.TTL = ttl
	}
	if raw.BatchSize != nil {
		cfg.BatchSize = *raw.BatchSize
	}
	if raw.EnableIncremental != nil {
		cfg.EnableIncremental = *raw.EnableIncremental
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.MaxCacheSize <= 0 {
		return fmt.Errorf("max_cache_size must be > 0: %w", ErrInvalidConfig)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be >= 0: %w", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0: %w", ErrInvalidConfig)
	}
	return nil
}
