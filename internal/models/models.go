// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

// Package models defines the row types for the star schema: the songplays
// fact table and the songs, artists, users, and time dimension tables.
package models

import (
	"github.com/google/uuid"
)

// Song is one row of the songs dimension. SongID is assigned by the
// upstream catalog, never generated here.
type Song struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// Artist is one row of the artists dimension. Latitude and Longitude are
// nil when the catalog carries no coordinates for the artist.
type Artist struct {
	ArtistID  string
	Name      string
	Location  string
	Latitude  *float64
	Longitude *float64
}

// User is one row of the users dimension. Level ("free" or "paid") is the
// only attribute that changes over time; writes are last-wins upserts.
type User struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// TimeRow is one row of the time dimension, fully derived from StartTime.
//
// StartTime is the original epoch timestamp in milliseconds and the primary
// key. Week is the ISO-8601 week of year. Weekday is numbered Monday=0
// through Sunday=6.
type TimeRow struct {
	StartTime int64
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   int
}

// Songplay is one row of the songplays fact table.
//
// ID is a deterministic UUID derived from the identifying fields of the raw
// event, so replaying the same log file converges instead of duplicating
// fact rows. SongID and ArtistID are nil when the play could not be matched
// against the loaded catalog, which is the common case.
type Songplay struct {
	ID        uuid.UUID
	StartTime int64
	UserID    string
	Level     string
	SongID    *string
	ArtistID  *string
	SessionID int64
	Location  string
	UserAgent string
}
