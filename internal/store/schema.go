// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package store

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the star-schema tables. All statements are
// CREATE TABLE IF NOT EXISTS so opening an existing warehouse is a no-op.
func (s *Store) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the table creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		// Fact table. The deterministic UUID primary key carries the
		// dedup semantics: replaying a log file hits ON CONFLICT DO
		// NOTHING instead of inserting a second row.
		`CREATE TABLE IF NOT EXISTS songplays (
			songplay_id UUID PRIMARY KEY,
			start_time BIGINT NOT NULL,
			user_id TEXT NOT NULL,
			level TEXT,
			song_id TEXT,
			artist_id TEXT,
			session_id BIGINT,
			location TEXT,
			user_agent TEXT
		)`,

		// Dimension tables. Keys arrive pre-assigned from the upstream
		// catalog and event stream; none are generated here.
		`CREATE TABLE IF NOT EXISTS songs (
			song_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist_id TEXT,
			year INTEGER,
			duration DOUBLE
		)`,

		`CREATE TABLE IF NOT EXISTS artists (
			artist_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT,
			latitude DOUBLE,
			longitude DOUBLE
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			first_name TEXT,
			last_name TEXT,
			gender TEXT,
			level TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS time (
			start_time BIGINT PRIMARY KEY,
			hour INTEGER NOT NULL,
			day INTEGER NOT NULL,
			week INTEGER NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			weekday INTEGER NOT NULL
		)`,

		// The resolver joins songs to artists on (title, name, duration)
		// once per play candidate; index the join columns.
		`CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title)`,
		`CREATE INDEX IF NOT EXISTS idx_artists_name ON artists(name)`,
		`CREATE INDEX IF NOT EXISTS idx_songplays_start_time ON songplays(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_songplays_user_id ON songplays(user_id)`,
	}
}
