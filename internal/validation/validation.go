// Playtrace - Listening History Analytics ETL
// Copyright 2026 Playtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playtrace/playtrace

// Package validation provides struct validation using go-playground/validator
// v10. A thread-safe singleton instance is shared across the application so
// struct metadata is parsed once and cached.
//
// Raw corpus records declare their required fields through `validate` tags;
// the ETL layer turns failures into per-record malformed-record errors.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the shared validator, creating it on first use.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct against its `validate` tags. The
// returned error lists every failing field, lowest struct field first.
func ValidateStruct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validation: %w", invalid)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// describe renders one field error as a short human-readable message.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("field %s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag())
	}
}
