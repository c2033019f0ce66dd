// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

// Package store provides row-level access to the DuckDB warehouse holding
// the star schema: the songplays fact table and the songs, artists, users,
// and time dimension tables.
//
// All writes are idempotent. Dimension inserts are insert-if-absent
// (ON CONFLICT DO NOTHING); users are upserted so the most recent
// subscription level wins; fact rows carry a deterministic UUID so a
// replayed load converges instead of duplicating.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/playtrace/playtrace/internal/config"
	"github.com/playtrace/playtrace/internal/logging"
)

// Querier is the subset of database/sql operations shared by *sql.DB and
// *sql.Tx. Write methods accept it so the loader can run a whole file
// inside one transaction while tests can write directly.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps the DuckDB connection and provides data access methods.
type Store struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// Open creates a database connection and initializes the schema.
// An empty cfg.Path opens an in-memory database.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	} else {
		// Ensure the parent directory exists for file-backed databases.
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable extension auto-install/auto-load to prevent hangs in
	// restricted network environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn, cfg: cfg}

	if err := s.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Conn returns the underlying SQL database connection.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Close checkpoints the database and closes the connection. The checkpoint
// flushes the WAL so the next open does not replay it.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}

	return s.conn.Close()
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, so a failure partway through a file
// leaves nothing from that file behind.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Cleanup is best-effort.
	}
}
