// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package models

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// FlexString decodes a JSON value that upstream emits inconsistently as
// either a string or a number. The event stream writes userId as a number
// for authenticated sessions and as "" for anonymous ones.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value %q is neither string nor number", data)
	}
	// Integral numbers keep their canonical form (10.0 -> "10").
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
	} else {
		*f = FlexString(n.String())
	}
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string {
	return string(f)
}

// SongRecord is the raw shape of one song-metadata file: a single JSON
// object describing one song and its artist. The catalog format guarantees
// exactly one song per file.
type SongRecord struct {
	SongID          string   `json:"song_id" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	ArtistID        string   `json:"artist_id" validate:"required"`
	Year            int      `json:"year"`
	Duration        *float64 `json:"duration" validate:"required"`
	ArtistName      string   `json:"artist_name" validate:"required"`
	ArtistLocation  string   `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
}

// LogEvent is the raw shape of one activity-log line. Only events with
// Page == "NextSong" describe a play; everything else (auth, navigation)
// is filtered out before any further derivation.
//
// TS, UserID and SessionID are pointers so that a missing key can be told
// apart from a zero value: a log line with no userId key at all is
// malformed, while userId "" is a legitimate anonymous session.
type LogEvent struct {
	TS        *int64      `json:"ts" validate:"required"`
	UserID    *FlexString `json:"userId" validate:"required"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Gender    string      `json:"gender"`
	Level     string      `json:"level"`
	Page      string      `json:"page" validate:"required"`
	Song      string      `json:"song"`
	Artist    string      `json:"artist"`
	Length    *float64    `json:"length"`
	SessionID *int64      `json:"sessionId"`
	Location  string      `json:"location"`
	UserAgent string      `json:"userAgent"`
}

// PageNextSong is the page value that marks an actual song play.
const PageNextSong = "NextSong"
