// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/playtrace/playtrace/internal/logging"
	"github.com/playtrace/playtrace/internal/models"
	"github.com/playtrace/playtrace/internal/validation"
)

// maxLineSize bounds a single log line. Lines carry a user-agent string and
// a location but no payload, so 1MB is generous.
const maxLineSize = 1 << 20

// PlayCandidate carries the denormalized fields of one qualifying play
// event, before the song and artist foreign keys have been resolved
// against the loaded catalog.
type PlayCandidate struct {
	StartTime int64
	UserID    string
	Level     string
	Song      string
	Artist    string
	Length    *float64
	SessionID int64
	Location  string
	UserAgent string
}

// Extracted bundles the rows derived from one qualifying log event: the
// time dimension row, the user dimension row, and the fact-row candidate.
//
// Users are deliberately not deduplicated here. Each qualifying event emits
// its user row again, and the loader upserts them in file order, so the
// last event's subscription level wins.
type Extracted struct {
	Time      models.TimeRow
	User      models.User
	Candidate PlayCandidate
}

// ExtractEvents reads an activity log (one JSON object per line) and
// extracts the rows for every play event.
//
// Only events with page "NextSong" qualify; auth and navigation events
// carry no song to resolve and are discarded. A kept record that is missing
// its ts or userId key is malformed: it is skipped, logged, and counted,
// never fatal for the file. An event with an empty (anonymous) userId
// string is still extracted; the loader decides its fate at persistence.
//
// The returned error reports reader failures only. An empty file yields
// zero events and no error.
func ExtractEvents(r io.Reader, file string) (events []Extracted, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec models.LogEvent
		if jsonErr := json.Unmarshal(line, &rec); jsonErr != nil {
			skipped++
			logging.Warn().
				Err(malformed(file, lineNo, fmt.Errorf("invalid JSON: %w", jsonErr))).
				Msg("Skipping unparseable log line")
			continue
		}

		if rec.Page != models.PageNextSong {
			continue
		}

		if valErr := validation.ValidateStruct(&rec); valErr != nil {
			skipped++
			logging.Warn().
				Err(malformed(file, lineNo, valErr)).
				Msg("Skipping malformed play event")
			continue
		}

		events = append(events, fromLogEvent(&rec))
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, skipped, fmt.Errorf("failed to read %s: %w", file, scanErr)
	}

	return events, skipped, nil
}

// fromLogEvent derives the dimension rows and fact candidate from one
// validated NextSong record.
func fromLogEvent(rec *models.LogEvent) Extracted {
	userID := rec.UserID.String()

	var sessionID int64
	if rec.SessionID != nil {
		sessionID = *rec.SessionID
	}

	return Extracted{
		Time: DeriveTime(*rec.TS),
		User: models.User{
			UserID:    userID,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Gender:    rec.Gender,
			Level:     rec.Level,
		},
		Candidate: PlayCandidate{
			StartTime: *rec.TS,
			UserID:    userID,
			Level:     rec.Level,
			Song:      rec.Song,
			Artist:    rec.Artist,
			Length:    rec.Length,
			SessionID: sessionID,
			Location:  rec.Location,
			UserAgent: rec.UserAgent,
		},
	}
}
