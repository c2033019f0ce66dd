// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

// Package main is the entry point for the playtrace ETL command.
//
// Playtrace loads a music streaming service's listening history into a
// DuckDB star schema for analytics: a songplays fact table surrounded by
// song, artist, user, and time dimensions.
//
// # Usage
//
//	playtrace songs [dir]          Load the song-metadata corpus
//	playtrace logs [dir]           Load the activity-log corpus
//	playtrace all [songs] [logs]   Load both, catalog first
//
// Directories default to the configured corpus roots. The song corpus must
// be loaded before the log corpus: play events resolve their song and
// artist keys against the already-committed catalog, and `all` enforces
// that order.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, an optional YAML config file
// (CONFIG_PATH or playtrace.yaml), and built-in defaults. See
// internal/config for the full surface; the common variables are
// DATABASE_PATH, SONG_DATA_DIR, LOG_DATA_DIR, LOG_LEVEL, and LOG_FORMAT.
//
// # Behavior on failure
//
// Malformed records are skipped and logged, never fatal. A persistence
// failure rolls back the file being loaded and terminates the run with a
// diagnostic naming that file; files committed earlier stay committed, and
// every write is idempotent, so re-running after fixing the fault
// converges instead of duplicating.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/playtrace/playtrace/internal/config"
	"github.com/playtrace/playtrace/internal/etl"
	"github.com/playtrace/playtrace/internal/logging"
	"github.com/playtrace/playtrace/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Error().Err(err).Msg("Load failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing database")
		}
	}()

	loader := etl.NewLoader(st)

	switch cmd := args[0]; cmd {
	case "songs":
		_, err = loader.LoadSongData(ctx, argOr(args, 1, cfg.ETL.SongDir))
		return err

	case "logs":
		_, err = loader.LoadLogData(ctx, argOr(args, 1, cfg.ETL.LogDir))
		return err

	case "all":
		// Catalog first: log processing resolves against committed
		// song and artist rows only.
		if _, err = loader.LoadSongData(ctx, argOr(args, 1, cfg.ETL.SongDir)); err != nil {
			return err
		}
		_, err = loader.LoadLogData(ctx, argOr(args, 2, cfg.ETL.LogDir))
		return err

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// argOr returns positional argument i, or fallback when absent.
func argOr(args []string, i int, fallback string) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return fallback
}

func usage() {
	fmt.Fprintf(os.Stderr, `playtrace - listening history star-schema ETL

Usage:
  playtrace songs [dir]          load the song-metadata corpus
  playtrace logs [dir]           load the activity-log corpus
  playtrace all [songs] [logs]   load both corpora, catalog first
`)
}
