// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playtrace/playtrace/internal/config"
	"github.com/playtrace/playtrace/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(&config.DatabaseConfig{})
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return st
}

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

const setantaSongJSON = `{
	"artist_id": "ARXXX1",
	"artist_name": "Elena",
	"artist_location": "Dubai UAE",
	"artist_latitude": 25.0657,
	"artist_longitude": 55.1713,
	"song_id": "SOZCTXZ12AB0182364",
	"title": "Setanta matins",
	"duration": 269.58,
	"year": 1989
}`

func TestLoaderSongCorpus(t *testing.T) {
	st := newTestStore(t)
	loader := NewLoader(st)
	ctx := context.Background()

	dir := t.TempDir()
	writeCorpusFile(t, dir, "a/setanta.json", setantaSongJSON)
	writeCorpusFile(t, dir, "b/casual.json", validSongJSON)

	t.Run("loads one song and one artist per file", func(t *testing.T) {
		stats, err := loader.LoadSongData(ctx, dir)
		if err != nil {
			t.Fatalf("LoadSongData returned error: %v", err)
		}
		if stats.ProcessedFiles != 2 {
			t.Errorf("ProcessedFiles = %d, want 2", stats.ProcessedFiles)
		}

		songs, _ := st.CountSongs(ctx)
		artists, _ := st.CountArtists(ctx)
		if songs != 2 || artists != 2 {
			t.Errorf("counts = %d songs, %d artists, want 2/2", songs, artists)
		}
	})

	t.Run("reloading converges instead of duplicating", func(t *testing.T) {
		if _, err := loader.LoadSongData(ctx, dir); err != nil {
			t.Fatalf("second LoadSongData returned error: %v", err)
		}

		songs, _ := st.CountSongs(ctx)
		artists, _ := st.CountArtists(ctx)
		if songs != 2 || artists != 2 {
			t.Errorf("counts after reload = %d songs, %d artists, want 2/2", songs, artists)
		}
	})

	t.Run("malformed file is skipped, rest of corpus loads", func(t *testing.T) {
		dir2 := t.TempDir()
		writeCorpusFile(t, dir2, "bad.json", `{"title":"no ids here"}`)
		writeCorpusFile(t, dir2, "good.json", setantaSongJSON)

		stats, err := loader.LoadSongData(ctx, dir2)
		if err != nil {
			t.Fatalf("LoadSongData returned error: %v", err)
		}
		if stats.SkippedRecords != 1 {
			t.Errorf("SkippedRecords = %d, want 1", stats.SkippedRecords)
		}
		if stats.ProcessedFiles != 2 {
			t.Errorf("ProcessedFiles = %d, want 2", stats.ProcessedFiles)
		}
	})
}

func playLine(ts int64, userID, level, song, artist string, length float64, session int64) string {
	return fmt.Sprintf(`{"ts":%d,"userId":%q,"firstName":"Sylvie","lastName":"Cruz","gender":"F",`+
		`"level":%q,"page":"NextSong","song":%q,"artist":%q,"length":%g,"sessionId":%d,`+
		`"location":"Klamath Falls, OR","userAgent":"Mozilla/5.0"}`,
		ts, userID, level, song, artist, length, session)
}

func TestLoaderLogCorpus(t *testing.T) {
	st := newTestStore(t)
	loader := NewLoader(st)
	ctx := context.Background()

	songDir := t.TempDir()
	writeCorpusFile(t, songDir, "setanta.json", setantaSongJSON)
	if _, err := loader.LoadSongData(ctx, songDir); err != nil {
		t.Fatalf("LoadSongData returned error: %v", err)
	}

	logDir := t.TempDir()
	logContent := strings.Join([]string{
		`{"ts":1541721977000,"userId":"10","page":"Login","sessionId":345}`,
		playLine(1541721977796, "10", "free", "Setanta matins", "Elena", 269.58, 345),
		playLine(1541722100000, "10", "paid", "Unknown Track", "Nobody", 100.5, 345),
		`{"ts":1541722200000,"userId":"10","page":"Logout","sessionId":345}`,
	}, "\n")
	writeCorpusFile(t, logDir, "2018-11-09-events.json", logContent)

	stats, err := loader.LoadLogData(ctx, logDir)
	if err != nil {
		t.Fatalf("LoadLogData returned error: %v", err)
	}
	if stats.ProcessedFiles != 1 {
		t.Errorf("ProcessedFiles = %d, want 1", stats.ProcessedFiles)
	}

	t.Run("only NextSong events become fact rows", func(t *testing.T) {
		plays, err := st.CountSongplays(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if plays != 2 {
			t.Errorf("songplays = %d, want 2", plays)
		}
	})

	t.Run("catalog match resolves foreign keys", func(t *testing.T) {
		var songID, artistID *string
		row := st.Conn().QueryRowContext(ctx,
			`SELECT song_id, artist_id FROM songplays WHERE start_time = ?`, int64(1541721977796))
		if err := row.Scan(&songID, &artistID); err != nil {
			t.Fatal(err)
		}
		if songID == nil || *songID != "SOZCTXZ12AB0182364" {
			t.Errorf("song_id = %v, want SOZCTXZ12AB0182364", songID)
		}
		if artistID == nil || *artistID != "ARXXX1" {
			t.Errorf("artist_id = %v, want ARXXX1", artistID)
		}
	})

	t.Run("unmatched play keeps null foreign keys", func(t *testing.T) {
		var songID, artistID *string
		row := st.Conn().QueryRowContext(ctx,
			`SELECT song_id, artist_id FROM songplays WHERE start_time = ?`, int64(1541722100000))
		if err := row.Scan(&songID, &artistID); err != nil {
			t.Fatal(err)
		}
		if songID != nil || artistID != nil {
			t.Errorf("foreign keys = %v/%v, want null/null", songID, artistID)
		}
	})

	t.Run("later event wins the user level", func(t *testing.T) {
		user, err := st.GetUser(ctx, "10")
		if err != nil {
			t.Fatal(err)
		}
		if user.Level != "paid" {
			t.Errorf("level = %s, want paid", user.Level)
		}
	})

	t.Run("time rows derive from event timestamps", func(t *testing.T) {
		row, err := st.GetTimeRow(ctx, 1541721977796)
		if err != nil {
			t.Fatal(err)
		}
		if row.Year != 2018 || row.Month != 11 || row.Day != 9 || row.Hour != 0 {
			t.Errorf("time row = %+v, want 2018-11-09 hour 0", row)
		}
	})

	t.Run("replaying the corpus is idempotent", func(t *testing.T) {
		before, _ := st.CountSongplays(ctx)

		if _, err := loader.LoadLogData(ctx, logDir); err != nil {
			t.Fatalf("second LoadLogData returned error: %v", err)
		}

		after, _ := st.CountSongplays(ctx)
		if after != before {
			t.Errorf("songplays after replay = %d, want %d", after, before)
		}
		users, _ := st.CountUsers(ctx)
		if users != 1 {
			t.Errorf("users = %d, want 1", users)
		}
		times, _ := st.CountTimeRows(ctx)
		if times != 2 {
			t.Errorf("time rows = %d, want 2", times)
		}
	})
}

func TestLoaderLogCorpusEdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("empty log file produces zero fact rows and no error", func(t *testing.T) {
		st := newTestStore(t)
		loader := NewLoader(st)

		logDir := t.TempDir()
		writeCorpusFile(t, logDir, "empty.json", "")

		stats, err := loader.LoadLogData(ctx, logDir)
		if err != nil {
			t.Fatalf("LoadLogData returned error: %v", err)
		}
		if stats.ProcessedFiles != 1 {
			t.Errorf("ProcessedFiles = %d, want 1", stats.ProcessedFiles)
		}

		plays, _ := st.CountSongplays(ctx)
		if plays != 0 {
			t.Errorf("songplays = %d, want 0", plays)
		}
	})

	t.Run("anonymous events persist no user and no fact row", func(t *testing.T) {
		st := newTestStore(t)
		loader := NewLoader(st)

		logDir := t.TempDir()
		writeCorpusFile(t, logDir, "anon.json",
			`{"ts":1541721977796,"userId":"","page":"NextSong","level":"free","sessionId":9}`)

		stats, err := loader.LoadLogData(ctx, logDir)
		if err != nil {
			t.Fatalf("LoadLogData returned error: %v", err)
		}
		if stats.SkippedRecords != 1 {
			t.Errorf("SkippedRecords = %d, want 1", stats.SkippedRecords)
		}

		users, _ := st.CountUsers(ctx)
		plays, _ := st.CountSongplays(ctx)
		if users != 0 || plays != 0 {
			t.Errorf("users = %d, songplays = %d, want 0/0", users, plays)
		}

		// The time dimension still gains the row: it is keyed by the
		// timestamp alone and carries no user reference.
		times, _ := st.CountTimeRows(ctx)
		if times != 1 {
			t.Errorf("time rows = %d, want 1", times)
		}
	})
}
