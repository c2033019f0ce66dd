// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"time"

	"github.com/playtrace/playtrace/internal/models"
)

// DeriveTime decomposes an epoch millisecond timestamp into the time
// dimension row. The function is total: any int64 input yields a row.
//
// Conventions, applied uniformly to every row:
//   - All fields are derived in UTC, matching the upstream event stream.
//   - Week is the ISO-8601 week of year, so late-December timestamps can
//     land in week 1 of the following ISO year while Year still reports
//     the calendar year.
//   - Weekday is numbered Monday=0 through Sunday=6.
func DeriveTime(tsMillis int64) models.TimeRow {
	t := time.UnixMilli(tsMillis).UTC()

	_, isoWeek := t.ISOWeek()

	return models.TimeRow{
		StartTime: tsMillis,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      isoWeek,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}
