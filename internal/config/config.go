// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package config loads and validates Reelmatch configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (OMDB_API_KEY, SERVER_PORT, ...)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Reelmatch server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	OMDb      OMDbConfig      `koanf:"omdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout bounds request read/write handling.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// CatalogConfig locates the catalog inputs loaded at startup.
type CatalogConfig struct {
	// Path is the catalog CSV file.
	Path string `koanf:"path"`

	// MatrixPath is the similarity matrix file (.bin or .json).
	MatrixPath string `koanf:"matrix_path"`
}

// OMDbConfig contains settings for the external metadata provider.
type OMDbConfig struct {
	// BaseURL is the API endpoint.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates OMDb requests. Required.
	APIKey string `koanf:"api_key"`

	// Timeout is the per-lookup HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit caps outbound requests per second.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the limiter burst size.
	RateBurst int `koanf:"rate_burst"`

	// FallbackPoster replaces missing poster references.
	FallbackPoster string `koanf:"fallback_poster"`
}

// RecommendConfig contains ranking settings.
type RecommendConfig struct {
	// DefaultK is the candidate count when the caller omits one.
	DefaultK int `koanf:"default_k"`

	// MaxK is the largest accepted candidate count.
	MaxK int `koanf:"max_k"`
}

// APIConfig contains inbound API settings.
type APIConfig struct {
	// CORSOrigins lists allowed origins for the web UI.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the allowed requests per window per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns inbound rate limiting off.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8484,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Catalog: CatalogConfig{
			Path:       "/data/catalog.csv",
			MatrixPath: "/data/similarity.bin",
		},
		OMDb: OMDbConfig{
			BaseURL:   "https://www.omdbapi.com/",
			APIKey:    "",
			Timeout:   10 * time.Second,
			RateLimit: 5,
			RateBurst: 10,
		},
		Recommend: RecommendConfig{
			DefaultK: 5,
			MaxK:     10,
		},
		API: APIConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for consistency. Field checks are
// grouped per section; the first failure wins.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateOMDb,
		c.validateRecommend,
		c.validateAPI,
	}

	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if env := c.Server.Environment; env != "development" && env != "production" {
		return fmt.Errorf("SERVER_ENVIRONMENT must be development or production, got %q", env)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Catalog.MatrixPath == "" {
		return fmt.Errorf("CATALOG_MATRIX_PATH is required")
	}
	return nil
}

func (c *Config) validateOMDb() error {
	if c.OMDb.APIKey == "" {
		return fmt.Errorf("OMDB_API_KEY is required")
	}
	if c.OMDb.Timeout <= 0 {
		return fmt.Errorf("OMDB_TIMEOUT must be positive")
	}
	if c.OMDb.RateLimit <= 0 {
		return fmt.Errorf("OMDB_RATE_LIMIT must be positive")
	}
	if c.OMDb.RateBurst < 1 {
		return fmt.Errorf("OMDB_RATE_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be at least 1")
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("RECOMMEND_MAX_K must be >= RECOMMEND_DEFAULT_K")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("API_RATE_LIMIT_REQS must be at least 1")
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("API_RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}
