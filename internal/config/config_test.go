// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path != "playtrace.duckdb" {
		t.Errorf("database path = %q, want playtrace.duckdb", cfg.Database.Path)
	}
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("max memory = %q, want 1GB", cfg.Database.MaxMemory)
	}
	if cfg.ETL.SongDir != "data/song_data" || cfg.ETL.LogDir != "data/log_data" {
		t.Errorf("data dirs = %q %q, want data/song_data data/log_data", cfg.ETL.SongDir, cfg.ETL.LogDir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Path != "playtrace.duckdb" {
		t.Errorf("database path = %q, want default", cfg.Database.Path)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playtrace.yaml")
	content := []byte("database:\n  path: /var/lib/playtrace/warehouse.duckdb\netl:\n  song_dir: /srv/song_data\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Path != "/var/lib/playtrace/warehouse.duckdb" {
		t.Errorf("database path = %q, want file value", cfg.Database.Path)
	}
	if cfg.ETL.SongDir != "/srv/song_data" {
		t.Errorf("song dir = %q, want file value", cfg.ETL.SongDir)
	}
	// Keys the file does not set keep their defaults.
	if cfg.ETL.LogDir != "data/log_data" {
		t.Errorf("log dir = %q, want default", cfg.ETL.LogDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playtrace.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATABASE_MAX_MEMORY", "512MB")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want env value warn", cfg.Logging.Level)
	}
	if cfg.Database.MaxMemory != "512MB" {
		t.Errorf("max memory = %q, want 512MB", cfg.Database.MaxMemory)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Error("Load accepted LOG_LEVEL=verbose")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"DATABASE_PATH", "database.path"},
		{"DATABASE_MAX_MEMORY", "database.max_memory"},
		{"DATABASE_THREADS", "database.threads"},
		{"SONG_DATA_DIR", "etl.song_dir"},
		{"LOG_DATA_DIR", "etl.log_dir"},
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FORMAT", "logging.format"},
		{"LOG_CALLER", "logging.caller"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, true},
		{"bad memory limit", func(c *Config) { c.Database.MaxMemory = "lots" }, true},
		{"memory without digits", func(c *Config) { c.Database.MaxMemory = "GB" }, true},
		{"empty memory limit", func(c *Config) { c.Database.MaxMemory = "" }, false},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"warning alias", func(c *Config) { c.Logging.Level = "warning" }, false},
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

func TestValidMemoryLimit(t *testing.T) {
	valid := []string{"1GB", "512MB", "16gb", " 2 GB ", "100KB", "1TB"}
	for _, s := range valid {
		if !validMemoryLimit(s) {
			t.Errorf("validMemoryLimit(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "GB", "1.5GB", "1PB", "one GB", "-1GB"}
	for _, s := range invalid {
		if validMemoryLimit(s) {
			t.Errorf("validMemoryLimit(%q) = true, want false", s)
		}
	}
}
