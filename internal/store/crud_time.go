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

// InsertTimeRow inserts a time dimension row keyed by the epoch timestamp.
// Every derived field is a pure function of the key, so conflicting inserts
// can only carry identical values and DO NOTHING is safe.
func (s *Store) InsertTimeRow(ctx context.Context, q Querier, row *models.TimeRow) error {
	query := `INSERT INTO time (start_time, hour, day, week, month, year, weekday)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`

	_, err := q.ExecContext(ctx, query,
		row.StartTime, row.Hour, row.Day, row.Week, row.Month, row.Year, row.Weekday)
	if err != nil {
		return fmt.Errorf("failed to insert time row %d: %w", row.StartTime, err)
	}
	return nil
}

// GetTimeRow reads one time dimension row. Returns sql.ErrNoRows when absent.
func (s *Store) GetTimeRow(ctx context.Context, startTime int64) (*models.TimeRow, error) {
	query := `SELECT start_time, hour, day, week, month, year, weekday
		FROM time WHERE start_time = ?`

	var row models.TimeRow
	err := s.conn.QueryRowContext(ctx, query, startTime).
		Scan(&row.StartTime, &row.Hour, &row.Day, &row.Week, &row.Month, &row.Year, &row.Weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to read time row %d: %w", startTime, err)
	}
	return &row, nil
}

// CountTimeRows returns the number of time dimension rows.
func (s *Store) CountTimeRows(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM time`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count time rows: %w", err)
	}
	return n, nil
}
