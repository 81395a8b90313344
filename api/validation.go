// Package api provides validation utilities for API request handling.
package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/record-search/model"
)

// maxQueryLength bounds the query string accepted by the search endpoint, in runes.
const maxQueryLength = 256

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateItemID parses an item id path parameter
func ValidateItemID(raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		result.AddError("id", "Item ID is required")
		return 0, result
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("id", "Item ID must be an integer")
		return 0, result
	}
	return id, result
}

// ValidateQuery checks the search query string. A blank query is valid and
// simply returns no results.
func ValidateQuery(query string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if n := utf8.RuneCountInString(query); n > maxQueryLength {
		result.AddError("q", fmt.Sprintf("Query cannot be longer than %d characters (got %d)", maxQueryLength, n))
	}
	return result
}

// ValidateItems checks the shape of items submitted for indexing. Duplicate ids
// are left to the engine, which also knows the stored items.
func ValidateItems(items []model.Item) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(items) == 0 {
		result.AddError("items", "No items provided")
		return result
	}

	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			result.AddError(field+".name", "Item name cannot be empty or whitespace-only")
		}
		if strings.TrimSpace(item.Brand) == "" {
			result.AddError(field+".brand", "Item brand cannot be empty or whitespace-only")
		}
		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			result.AddError(field+".price", "Item price must be a finite non-negative number")
		}
	}
	return result
}
