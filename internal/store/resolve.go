// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ResolveSong looks up the (song_id, artist_id) pair for a play candidate's
// denormalized title, artist name, and duration.
//
// The lookup is an equi-join of songs to artists with exact equality on the
// stored DOUBLE duration; the candidate's length came through the same
// float64 round-trip as the catalog's duration, so a true catalog match
// compares equal. The catalog is sparse relative to play history: zero
// matches is the common case, reported as (nil, nil) and never an error.
// When several songs share title, artist, and duration, the lowest song_id
// wins, keeping resolution deterministic across runs.
func (s *Store) ResolveSong(ctx context.Context, q Querier, title, artist string, duration float64) (songID, artistID *string, err error) {
	query := `SELECT s.song_id, s.artist_id
		FROM songs s
		JOIN artists a ON s.artist_id = a.artist_id
		WHERE s.title = ? AND a.name = ? AND s.duration = ?
		ORDER BY s.song_id
		LIMIT 1`

	var sid, aid string
	err = q.QueryRowContext(ctx, query, title, artist, duration).Scan(&sid, &aid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve song %q by %q: %w", title, artist, err)
	}
	return &sid, &aid, nil
}
