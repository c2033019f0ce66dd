// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string  `validate:"required"`
	Level string  `validate:"omitempty,oneof=free paid"`
	Score *int    `validate:"required"`
	Rate  float64 `validate:"min=0"`
}

func TestValidateStruct(t *testing.T) {
	score := 1

	t.Run("valid struct passes", func(t *testing.T) {
		s := sample{Name: "x", Level: "free", Score: &score}
		if err := ValidateStruct(s); err != nil {
			t.Errorf("ValidateStruct returned error: %v", err)
		}
	})

	t.Run("nil pointer fails required", func(t *testing.T) {
		s := sample{Name: "x"}
		err := ValidateStruct(s)
		if err == nil {
			t.Fatal("expected error for nil Score")
		}
		if !strings.Contains(err.Error(), "field Score is required") {
			t.Errorf("error %q does not mention Score", err)
		}
	})

	t.Run("pointer to zero passes required", func(t *testing.T) {
		zero := 0
		s := sample{Name: "x", Score: &zero}
		if err := ValidateStruct(s); err != nil {
			t.Errorf("ValidateStruct returned error: %v", err)
		}
	})

	t.Run("all failures reported", func(t *testing.T) {
		s := sample{Level: "trial", Rate: -1}
		err := ValidateStruct(s)
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		for _, want := range []string{
			"field Name is required",
			"field Level must be one of [free paid]",
			"field Score is required",
			"field Rate must be at least 0",
		} {
			if !strings.Contains(msg, want) {
				t.Errorf("error %q missing %q", msg, want)
			}
		}
	})

	t.Run("non-struct input is an error", func(t *testing.T) {
		if err := ValidateStruct("not a struct"); err == nil {
			t.Error("expected error for non-struct input")
		}
	})
}
