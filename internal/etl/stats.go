// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"time"
)

// Stats holds statistics about one load pass over a corpus.
type Stats struct {
	// TotalFiles is the number of files discovered in the corpus.
	TotalFiles int

	// ProcessedFiles is the number of files fully committed.
	ProcessedFiles int

	// RowsWritten is the number of row writes issued inside committed
	// transactions, across all tables. Fact rows absorbed as duplicates
	// don't count; idempotent dimension re-inserts do.
	RowsWritten int64

	// SkippedRecords is the number of records dropped for being
	// malformed or for carrying no resolvable user.
	SkippedRecords int64

	// StartTime is when the load started.
	StartTime time.Time

	// EndTime is when the load completed (zero while running).
	EndTime time.Time
}

// Duration returns the elapsed time of the load.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the file progress as a percentage (0-100).
func (s *Stats) Progress() float64 {
	if s.TotalFiles == 0 {
		return 0
	}
	return float64(s.ProcessedFiles) / float64(s.TotalFiles) * 100
}
