package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrItemNotFound is returned when an item id is not indexed
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateItem is returned when an appended item reuses an indexed id
	ErrDuplicateItem = errors.New("duplicate item")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// ItemNotFoundError represents an unknown item id with context
type ItemNotFoundError struct {
	ItemID int
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item with ID %d not found", e.ItemID)
}

func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// NewItemNotFoundError creates a new ItemNotFoundError
func NewItemNotFoundError(itemID int) *ItemNotFoundError {
	return &ItemNotFoundError{ItemID: itemID}
}

// DuplicateItemError reports an item id that is already indexed or repeated within a batch
type DuplicateItemError struct {
	ItemID int
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("item with ID %d is already indexed", e.ItemID)
}

func (e *DuplicateItemError) Is(target error) bool {
	return target == ErrDuplicateItem
}

// NewDuplicateItemError creates a new DuplicateItemError
func NewDuplicateItemError(itemID int) *DuplicateItemError {
	return &DuplicateItemError{ItemID: itemID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
