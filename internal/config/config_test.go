// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum environment for Load to succeed.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OMDB_API_KEY", "test-key")
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
}

func TestLoadDefaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8484 {
		t.Errorf("Server.Port = %d, want 8484", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q", cfg.Server.Host)
	}
	if cfg.Recommend.DefaultK != 5 || cfg.Recommend.MaxK != 10 {
		t.Errorf("Recommend = %+v, want DefaultK=5 MaxK=10", cfg.Recommend)
	}
	if cfg.OMDb.BaseURL != "https://www.omdbapi.com/" {
		t.Errorf("OMDb.BaseURL = %q", cfg.OMDb.BaseURL)
	}
	if cfg.OMDb.APIKey != "test-key" {
		t.Errorf("OMDb.APIKey = %q, want env override", cfg.OMDb.APIKey)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	validEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CATALOG_PATH", "/tmp/movies.csv")
	t.Setenv("CATALOG_MATRIX_PATH", "/tmp/sim.json")
	t.Setenv("RECOMMEND_DEFAULT_K", "3")
	t.Setenv("RECOMMEND_MAX_K", "8")
	t.Setenv("OMDB_RATE_LIMIT", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/tmp/movies.csv" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Catalog.MatrixPath != "/tmp/sim.json" {
		t.Errorf("Catalog.MatrixPath = %q", cfg.Catalog.MatrixPath)
	}
	if cfg.Recommend.DefaultK != 3 || cfg.Recommend.MaxK != 8 {
		t.Errorf("Recommend = %+v, want DefaultK=3 MaxK=8", cfg.Recommend)
	}
	if cfg.OMDb.RateLimit != 2.5 {
		t.Errorf("OMDb.RateLimit = %v, want 2.5", cfg.OMDb.RateLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7777
omdb:
  api_key: file-key
recommend:
  default_k: 4
api:
  cors_origins:
    - https://reelmatch.example
    - https://staging.reelmatch.example
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.OMDb.APIKey != "file-key" {
		t.Errorf("OMDb.APIKey = %q, want file-key", cfg.OMDb.APIKey)
	}
	if cfg.Recommend.DefaultK != 4 {
		t.Errorf("Recommend.DefaultK = %d, want 4", cfg.Recommend.DefaultK)
	}
	if len(cfg.API.CORSOrigins) != 2 {
		t.Errorf("API.CORSOrigins = %v, want 2 entries", cfg.API.CORSOrigins)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7777\nomdb:\n  api_key: file-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want env value 9999", cfg.Server.Port)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	validEnv(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.API.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.API.CORSOrigins, want)
	}
	for i := range want {
		if cfg.API.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.API.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("OMDB_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without OMDB_API_KEY: want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with key", func(c *Config) { c.OMDb.APIKey = "k" }, false},
		{"missing api key", func(c *Config) {}, true},
		{"port zero", func(c *Config) { c.OMDb.APIKey = "k"; c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.OMDb.APIKey = "k"; c.Server.Port = 70000 }, true},
		{"bad environment", func(c *Config) { c.OMDb.APIKey = "k"; c.Server.Environment = "staging" }, true},
		{"empty catalog path", func(c *Config) { c.OMDb.APIKey = "k"; c.Catalog.Path = "" }, true},
		{"empty matrix path", func(c *Config) { c.OMDb.APIKey = "k"; c.Catalog.MatrixPath = "" }, true},
		{"zero default k", func(c *Config) { c.OMDb.APIKey = "k"; c.Recommend.DefaultK = 0 }, true},
		{"max below default", func(c *Config) { c.OMDb.APIKey = "k"; c.Recommend.MaxK = 2 }, true},
		{"negative rate limit", func(c *Config) { c.OMDb.APIKey = "k"; c.OMDb.RateLimit = -1 }, true},
		{"zero burst", func(c *Config) { c.OMDb.APIKey = "k"; c.OMDb.RateBurst = 0 }, true},
		{"zero omdb timeout", func(c *Config) { c.OMDb.APIKey = "k"; c.OMDb.Timeout = 0 }, true},
		{"rate limit disabled skips checks", func(c *Config) {
			c.OMDb.APIKey = "k"
			c.API.RateLimitDisabled = true
			c.API.RateLimitReqs = 0
		}, false},
		{"zero api rate reqs", func(c *Config) { c.OMDb.APIKey = "k"; c.API.RateLimitReqs = 0 }, true},
		{"zero api window", func(c *Config) { c.OMDb.APIKey = "k"; c.API.RateLimitWindow = 0 }, true},
		{"zero server timeout", func(c *Config) { c.OMDb.APIKey = "k"; c.Server.Timeout = 0 * time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7777\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_PATH", path)
	if got := FindConfigFile(); got != path {
		t.Errorf("FindConfigFile() = %q, want %q", got, path)
	}

	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	if got := FindConfigFile(); got != "" {
		t.Errorf("FindConfigFile() = %q, want empty for unreadable override", got)
	}
}

func TestWatchConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 1)
	if err := WatchConfigFile(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("WatchConfigFile() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked after config file change")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"OMDB_API_KEY", "omdb.api_key"},
		{"CATALOG_MATRIX_PATH", "catalog.matrix_path"},
		{"RECOMMEND_DEFAULT_K", "recommend.default_k"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
