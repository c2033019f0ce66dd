// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

// Package config defines the Playtrace configuration and its loading rules.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or a default search path)
//  3. Environment variables
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration for the ETL.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	ETL      ETLConfig      `koanf:"etl"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB warehouse file.
type DatabaseConfig struct {
	// Path is the DuckDB database file. An empty path opens an in-memory
	// database, which is only useful for tests.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB's memory usage, e.g. "1GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ETLConfig configures the load pipeline.
type ETLConfig struct {
	// SongDir is the root of the song-metadata corpus.
	SongDir string `koanf:"song_dir"`

	// LogDir is the root of the activity-log corpus.
	LogDir string `koanf:"log_dir"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Threads < 0 {
		return fmt.Errorf("DATABASE_THREADS must not be negative, got %d", c.Database.Threads)
	}
	if c.Database.MaxMemory != "" && !validMemoryLimit(c.Database.MaxMemory) {
		return fmt.Errorf("DATABASE_MAX_MEMORY %q is not a size like 512MB or 2GB", c.Database.MaxMemory)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOGGING_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOGGING_FORMAT %q must be json or console", c.Logging.Format)
	}
	return nil
}

// validMemoryLimit accepts DuckDB memory limits of the form "<digits><unit>"
// with unit KB, MB, GB or TB.
func validMemoryLimit(s string) bool {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, unit := range []string{"KB", "MB", "GB", "TB"} {
		if n, ok := strings.CutSuffix(upper, unit); ok {
			n = strings.TrimSpace(n)
			if n == "" {
				return false
			}
			for _, r := range n {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		}
	}
	return false
}
