// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

// Package etl implements the record-transformation core and the load
// pipeline: corpus discovery, per-record extraction, time derivation,
// dimension resolution, and idempotent persistence with one transaction
// per source file.
package etl

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/playtrace/playtrace/internal/logging"
	"github.com/playtrace/playtrace/internal/models"
	"github.com/playtrace/playtrace/internal/store"
)

// Loader sequences extraction, resolution, and persistence for one corpus
// at a time. The persistence handle is injected; Loader owns no global
// state, and every file is committed or rolled back as a unit.
type Loader struct {
	store *store.Store
}

// NewLoader creates a loader writing through the given store.
func NewLoader(st *store.Store) *Loader {
	return &Loader{store: st}
}

// LoadSongData loads the song-metadata corpus under dir: one Song and one
// Artist dimension row per file, insert-if-absent.
//
// The song corpus must be fully loaded before any activity logs, because
// play-event resolution only sees catalog rows that are already committed.
func (l *Loader) LoadSongData(ctx context.Context, dir string) (*Stats, error) {
	files, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalFiles: len(files), StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	logging.Info().Int("files", len(files)).Str("dir", dir).Msg("Song corpus discovered")

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := l.loadSongFile(ctx, file, stats); err != nil {
			return stats, fmt.Errorf("load %s: %w", file, err)
		}

		stats.ProcessedFiles++
		logging.Info().Msgf("%d/%d files processed", stats.ProcessedFiles, stats.TotalFiles)
	}

	logging.Info().
		Int("files", stats.ProcessedFiles).
		Int64("rows", stats.RowsWritten).
		Int64("skipped", stats.SkippedRecords).
		Dur("duration", stats.Duration()).
		Msg("Song corpus loaded")

	return stats, nil
}

// loadSongFile extracts one catalog file and commits its two dimension
// rows in a single transaction. A malformed record skips the file; a
// persistence failure is fatal.
func (l *Loader) loadSongFile(ctx context.Context, file string, stats *Stats) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	song, artist, err := ExtractSong(data, file)
	if err != nil {
		stats.SkippedRecords++
		logging.Warn().Err(err).Msg("Skipping malformed song record")
		return nil
	}

	return l.store.WithTx(ctx, func(tx *sql.Tx) error {
		// Artist first: the song row references it.
		if err := l.store.InsertArtist(ctx, tx, artist); err != nil {
			return err
		}
		if err := l.store.InsertSong(ctx, tx, song); err != nil {
			return err
		}
		stats.RowsWritten += 2
		return nil
	})
}

// LoadLogData loads the activity-log corpus under dir: time and user
// dimension rows plus resolved songplay fact rows, one transaction per
// file.
//
// Precondition: LoadSongData has completed and committed for the catalog
// this log corpus plays against. Resolution reads persisted dimension
// state only, so catalog rows loaded after a log file was processed are
// never visible to it.
func (l *Loader) LoadLogData(ctx context.Context, dir string) (*Stats, error) {
	files, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalFiles: len(files), StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	logging.Info().Int("files", len(files)).Str("dir", dir).Msg("Log corpus discovered")

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := l.loadLogFile(ctx, file, stats); err != nil {
			return stats, fmt.Errorf("load %s: %w", file, err)
		}

		stats.ProcessedFiles++
		logging.Info().Msgf("%d/%d files processed", stats.ProcessedFiles, stats.TotalFiles)
	}

	logging.Info().
		Int("files", stats.ProcessedFiles).
		Int64("rows", stats.RowsWritten).
		Int64("skipped", stats.SkippedRecords).
		Dur("duration", stats.Duration()).
		Msg("Log corpus loaded")

	return stats, nil
}

// loadLogFile extracts one activity log and commits all of its rows in a
// single transaction: time rows, then user upserts in file order (last
// level wins), then resolved fact rows. Any row-level failure rolls the
// whole file back.
func (l *Loader) loadLogFile(ctx context.Context, file string, stats *Stats) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer closeQuietly(f)

	events, skipped, err := ExtractEvents(f, file)
	if err != nil {
		return err
	}
	stats.SkippedRecords += int64(skipped)

	return l.store.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range events {
			ev := &events[i]

			if err := l.store.InsertTimeRow(ctx, tx, &ev.Time); err != nil {
				return err
			}
			stats.RowsWritten++

			// An anonymous session has no user row to converge on
			// and would leave a fact row with no resolvable user.
			if ev.User.UserID == "" {
				stats.SkippedRecords++
				logging.Warn().
					Int64("start_time", ev.Candidate.StartTime).
					Str("file", file).
					Msg("Skipping play event with empty userId")
				continue
			}

			if err := l.store.UpsertUser(ctx, tx, &ev.User); err != nil {
				return err
			}
			stats.RowsWritten++

			play, err := l.resolveCandidate(ctx, tx, &ev.Candidate)
			if err != nil {
				return err
			}
			written, err := l.store.InsertSongplay(ctx, tx, play)
			if err != nil {
				return err
			}
			if written {
				stats.RowsWritten++
			}
		}
		return nil
	})
}

// resolveCandidate fills the song and artist foreign keys of one play
// candidate from the loaded catalog. No match leaves both keys nil.
func (l *Loader) resolveCandidate(ctx context.Context, tx *sql.Tx, c *PlayCandidate) (*models.Songplay, error) {
	var songID, artistID *string
	if c.Length != nil {
		var err error
		songID, artistID, err = l.store.ResolveSong(ctx, tx, c.Song, c.Artist, *c.Length)
		if err != nil {
			return nil, err
		}
	}

	return &models.Songplay{
		ID:        songplayID(c),
		StartTime: c.StartTime,
		UserID:    c.UserID,
		Level:     c.Level,
		SongID:    songID,
		ArtistID:  artistID,
		SessionID: c.SessionID,
		Location:  c.Location,
		UserAgent: c.UserAgent,
	}, nil
}

// songplayID derives a deterministic UUID from the fields that identify a
// raw play event, so re-loading the same corpus produces the same fact-row
// IDs and the insert's conflict handling absorbs the duplicates.
func songplayID(c *PlayCandidate) uuid.UUID {
	input := fmt.Sprintf("songplay:%d:%s:%d", c.StartTime, c.UserID, c.SessionID)
	hash := sha256.Sum256([]byte(input))

	// 16 bytes of input cannot fail.
	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return uuid.New()
	}

	// Stamp version 5 and variant bits so the result is a valid UUID.
	id[6] = (id[6] & 0x0f) | 0x50
	id[8] = (id[8] & 0x3f) | 0x80

	return id
}
