// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package config defines the application configuration and its layered
// loader. Precedence is ENV > YAML file > built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/CatInTheRiceHat/MorphoMedia/internal/feed"
)

// Config is the root configuration shared by the server and batch tools.
type Config struct {
	Dataset     DatasetConfig     `koanf:"dataset"`
	Feed        FeedConfig        `koanf:"feed"`
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Logging     LoggingConfig     `koanf:"logging"`
	Experiments ExperimentsConfig `koanf:"experiments"`
}

// DatasetConfig points at the tagged shorts CSV.
type DatasetConfig struct {
	Path string `koanf:"path"`
}

// FeedConfig carries the default ranking mode used when a request does not
// specify one.
type FeedConfig struct {
	Preset       string `koanf:"preset"`
	NightMode    bool   `koanf:"night_mode"`
	K            int    `koanf:"k"`
	RecentWindow int    `koanf:"recent_window"`
	MaxStreak    int    `koanf:"max_streak"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	Environment       string        `koanf:"environment"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// APIConfig bounds request payloads.
type APIConfig struct {
	// MaxPoolSize caps the number of candidates accepted in one feed request.
	MaxPoolSize int `koanf:"max_pool_size"`
	// MaxK caps the requested feed length.
	MaxK int `koanf:"max_k"`
}

// LoggingConfig mirrors the zerolog setup knobs.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ExperimentsConfig controls batch simulation runs.
type ExperimentsConfig struct {
	Sessions  int    `koanf:"sessions"`
	K         int    `koanf:"k"`
	Workers   int    `koanf:"workers"`
	OutputDir string `koanf:"output_dir"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// Validate checks cross-field constraints not expressible as type defaults.
func (c *Config) Validate() error {
	if _, err := feed.PresetWeights(c.Feed.Preset); err != nil {
		return fmt.Errorf("feed.preset: %w", err)
	}
	if c.Feed.K < 0 {
		return fmt.Errorf("feed.k must be >= 0, got %d", c.Feed.K)
	}
	if c.Feed.RecentWindow < 0 {
		return fmt.Errorf("feed.recent_window must be >= 0, got %d", c.Feed.RecentWindow)
	}
	if c.Feed.MaxStreak < 1 {
		return fmt.Errorf("feed.max_streak must be >= 1, got %d", c.Feed.MaxStreak)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	switch strings.ToLower(c.Server.Environment) {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("server.rate_limit_reqs must be >= 1, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
		}
	}

	if c.API.MaxPoolSize < 1 {
		return fmt.Errorf("api.max_pool_size must be >= 1, got %d", c.API.MaxPoolSize)
	}
	if c.API.MaxK < 1 {
		return fmt.Errorf("api.max_k must be >= 1, got %d", c.API.MaxK)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Experiments.Sessions < 1 {
		return fmt.Errorf("experiments.sessions must be >= 1, got %d", c.Experiments.Sessions)
	}
	if c.Experiments.Workers < 0 {
		return fmt.Errorf("experiments.workers must be >= 0, got %d", c.Experiments.Workers)
	}
	return nil
}
