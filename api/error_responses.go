package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/record-search/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeItemNotFound     ErrorCode = "ITEM_NOT_FOUND"
	ErrorCodeDuplicateItem    ErrorCode = "DUPLICATE_ITEM"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery     ErrorCode = "INVALID_QUERY"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)
	if id := c.GetString(requestIDKey); id != "" {
		errorResponse.RequestID = id
	}
	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per problem
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", validationDetails(result)...)
}

// SendInvalidQueryError rejects a search query
func SendInvalidQueryError(c *gin.Context, result *ValidationResult) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid search query", validationDetails(result)...)
}

// SendInvalidRequestError rejects a malformed query parameter
func SendInvalidRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, message)
}

func validationDetails(result *ValidationResult) []ErrorDetail {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}
	return details
}

// SendItemNotFoundError sends a standardized item not found error
func SendItemNotFoundError(c *gin.Context, itemID string) {
	SendError(c, http.StatusNotFound, ErrorCodeItemNotFound, "Item '"+itemID+"' not found")
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, "Job '"+jobID+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendEngineError maps an engine error onto the matching status and code.
func SendEngineError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, internalErrors.ErrItemNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeItemNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrDuplicateItem):
		SendError(c, http.StatusConflict, ErrorCodeDuplicateItem, err.Error())
	case errors.Is(err, internalErrors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	default:
		SendInternalError(c, operation, err)
	}
}

// SendJobExecutionError sends a standardized job start error
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
		"Could not run "+operation+": "+err.Error())
}
