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

// UpsertUser inserts a user dimension row, or overwrites every attribute of
// an existing one. Users are the single mutable dimension: the subscription
// level flips between free and paid, and the write order within a log file
// guarantees the most recent event wins.
func (s *Store) UpsertUser(ctx context.Context, q Querier, user *models.User) error {
	query := `INSERT INTO users (user_id, first_name, last_name, gender, level)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			gender = excluded.gender,
			level = excluded.level`

	_, err := q.ExecContext(ctx, query,
		user.UserID, user.FirstName, user.LastName, user.Gender, user.Level)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.UserID, err)
	}
	return nil
}

// GetUser reads one user row. Returns sql.ErrNoRows when absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT user_id, first_name, last_name, gender, level
		FROM users WHERE user_id = ?`

	var u models.User
	err := s.conn.QueryRowContext(ctx, query, userID).
		Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Gender, &u.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to read user %s: %w", userID, err)
	}
	return &u, nil
}

// CountUsers returns the number of user rows.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
