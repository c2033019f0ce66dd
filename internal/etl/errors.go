// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package etl

import (
	"errors"
	"fmt"
	"io"
)

// ErrMalformedRecord marks a record whose required fields are missing or
// mistyped. Match with errors.Is. Malformed records are skipped and logged;
// they never abort the surrounding file.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError carries the location of a record that failed
// extraction, so operators can find it in the source corpus.
type MalformedRecordError struct {
	// File is the source file path.
	File string

	// Line is the 1-based line number within the file, or 0 for
	// single-object files.
	Line int

	// Reason describes which field check failed.
	Reason error
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at %s:%d: %v", e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed record in %s: %v", e.File, e.Reason)
}

// Unwrap lets errors.Is(err, ErrMalformedRecord) match.
func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

func malformed(file string, line int, reason error) *MalformedRecordError {
	return &MalformedRecordError{File: file, Line: line, Reason: reason}
}

// closeQuietly closes a resource and explicitly ignores any error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Cleanup is best-effort.
	}
}
