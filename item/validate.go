// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package item

import (
	"fmt"
	"strings"
)

// Validation limits.
const (
	// MaxNameLength is the longest accepted definition name.
	MaxNameLength = 100

	// MaxUnitLength is the longest accepted unit label.
	MaxUnitLength = 30

	// MaxContentLength is the longest accepted description content.
	MaxContentLength = 10_000
)

// ValidationResult is the structured outcome of input validation.
//
// Validation never produces Go errors for malformed domain input; callers
// inspect Errors and decide whether to block the save. Warnings never block.
type ValidationResult struct {
	// IsValid is true when Errors is empty.
	IsValid bool `json:"isValid"`

	// Errors are conditions that should block a save.
	Errors []string `json:"errors"`

	// Warnings are advisory conditions.
	Warnings []string `json:"warnings"`
}

func newValidationResult() ValidationResult {
	return ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateDefinitionInput validates a proposed definition create or update.
//
// # Description
//
// Checks the name for presence, length, and bracket characters (brackets
// would collide with the [name] link syntax in descriptions), the unit for
// length, and name uniqueness against the catalog. excludeID names the
// definition being updated so it does not conflict with itself; pass ""
// for creates.
//
// Outputs:
//
//	ValidationResult - Never nil slices; IsValid mirrors Errors.
func ValidateDefinitionInput(name, unit string, catalog *Catalog, excludeID string) ValidationResult {
	result := newValidationResult()

	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		result.addError("name is required")
	case len(trimmed) > MaxNameLength:
		result.addError("name exceeds %d characters", MaxNameLength)
	case strings.ContainsAny(trimmed, "[]"):
		result.addError("name must not contain '[' or ']'")
	}

	if len(unit) > MaxUnitLength {
		result.addError("unit exceeds %d characters", MaxUnitLength)
	}

	if trimmed != "" && catalog != nil {
		if existing, ok := catalog.FindDefinitionByName(trimmed); ok && existing.ID != excludeID {
			result.addError("a variable named %q already exists", existing.Name)
		}
	}

	if trimmed != name {
		result.addWarning("name has surrounding whitespace")
	}

	return result
}

// ValidateDescriptionInput validates proposed description content.
//
// Length violations are errors; thin content is only a warning here because
// the quality package scores it in detail.
func ValidateDescriptionInput(content string) ValidationResult {
	result := newValidationResult()

	if len(content) > MaxContentLength {
		result.addError("content exceeds %d characters", MaxContentLength)
	}
	if strings.TrimSpace(content) == "" {
		result.addWarning("content is empty")
	}

	return result
}
