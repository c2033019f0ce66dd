// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package store

import (
	"context"
	"fmt"

	"github.com/playtrace/playtrace/internal/models"
)

// InsertSong inserts a song dimension row. Re-inserting an existing
// song_id is a no-op: catalog rows are immutable once assigned upstream.
func (s *Store) InsertSong(ctx context.Context, q Querier, song *models.Song) error {
	query := `INSERT INTO songs (song_id, title, artist_id, year, duration)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	_, err := q.ExecContext(ctx, query,
		song.SongID, song.Title, song.ArtistID, song.Year, song.Duration)
	if err != nil {
		return fmt.Errorf("failed to insert song %s: %w", song.SongID, err)
	}
	return nil
}

// CountSongs returns the number of song rows.
func (s *Store) CountSongs(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}
