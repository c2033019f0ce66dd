// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package store

import (
	"context"
	"fmt"

	"github.com/playtrace/playtrace/internal/logging"
	"github.com/playtrace/playtrace/internal/models"
)

// InsertSongplay inserts a fact row with duplicate handling.
//
// The songplay_id is derived deterministically from the raw event, so a
// replayed file produces the same IDs and ON CONFLICT DO NOTHING makes the
// second pass a no-op. Returns whether a row was actually written.
func (s *Store) InsertSongplay(ctx context.Context, q Querier, play *models.Songplay) (bool, error) {
	query := `INSERT INTO songplays (
		songplay_id, start_time, user_id, level, song_id, artist_id,
		session_id, location, user_agent
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

	result, err := q.ExecContext(ctx, query,
		play.ID, play.StartTime, play.UserID, play.Level, play.SongID, play.ArtistID,
		play.SessionID, play.Location, play.UserAgent)
	if err != nil {
		return false, fmt.Errorf("failed to insert songplay %s: %w", play.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		logging.Debug().
			Str("user_id", play.UserID).
			Int64("start_time", play.StartTime).
			Msg("Duplicate songplay detected")
		return false, nil
	}
	return true, nil
}

// CountSongplays returns the number of fact rows.
func (s *Store) CountSongplays(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM songplays`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songplays: %w", err)
	}
	return n, nil
}
