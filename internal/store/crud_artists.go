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

// InsertArtist inserts an artist dimension row. Re-inserting an existing
// artist_id is a no-op.
func (s *Store) InsertArtist(ctx context.Context, q Querier, artist *models.Artist) error {
	query := `INSERT INTO artists (artist_id, name, location, latitude, longitude)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	_, err := q.ExecContext(ctx, query,
		artist.ArtistID, artist.Name, artist.Location, artist.Latitude, artist.Longitude)
	if err != nil {
		return fmt.Errorf("failed to insert artist %s: %w", artist.ArtistID, err)
	}
	return nil
}

// CountArtists returns the number of artist rows.
func (s *Store) CountArtists(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return n, nil
}
