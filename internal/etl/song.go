// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/playtrace/playtrace/internal/models"
	"github.com/playtrace/playtrace/internal/validation"
)

// ExtractSong parses one song-metadata file into its Song and Artist
// dimension rows. The catalog format carries exactly one song per file, so
// the result is a single pair, never a sequence.
//
// A record with a missing required field or a mistyped value (for example a
// non-numeric duration) fails with a MalformedRecordError.
func ExtractSong(data []byte, file string) (*models.Song, *models.Artist, error) {
	var rec models.SongRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil, malformed(file, 0, fmt.Errorf("invalid JSON: %w", err))
	}

	if err := validation.ValidateStruct(&rec); err != nil {
		return nil, nil, malformed(file, 0, err)
	}

	song := &models.Song{
		SongID:   rec.SongID,
		Title:    rec.Title,
		ArtistID: rec.ArtistID,
		Year:     rec.Year,
		Duration: *rec.Duration,
	}

	artist := &models.Artist{
		ArtistID:  rec.ArtistID,
		Name:      rec.ArtistName,
		Location:  rec.ArtistLocation,
		Latitude:  rec.ArtistLatitude,
		Longitude: rec.ArtistLongitude,
	}

	return song, artist, nil
}
