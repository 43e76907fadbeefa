// Package errors provides standardized error handling for the API and
// coordination layers
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode names the semantic failure classes the service can surface
type ErrorCode string

const (
	// Caller identity and permissions
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"

	// Request validation
	ErrorCodeValidationError ErrorCode = "VALIDATION_ERROR"
	ErrorCodeRequiredField   ErrorCode = "REQUIRED_FIELD"
	ErrorCodeInvalidValue    ErrorCode = "INVALID_VALUE"

	// Resource lookups
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	ErrorCodeConflict ErrorCode = "CONFLICT"

	// Throttling
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"

	// System errors
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrorCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
)

// StandardError is the unified error structure surfaced by the service
type StandardError struct {
	ErrorInfo ErrorDetails `json:"error"`
}

// ErrorDetails carries the code, human message, and structured context
type ErrorDetails struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// Error returns the human-readable message
func (e *StandardError) Error() string {
	return e.ErrorInfo.Message
}

// NewStandardError builds a StandardError with the given code and context
func NewStandardError(code ErrorCode, message string, details interface{}) *StandardError {
	return &StandardError{
		ErrorInfo: ErrorDetails{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// NewNotFoundError creates a not-found error for a named resource
func NewNotFoundError(resource, id string) *StandardError {
	return NewStandardError(ErrorCodeNotFound,
		fmt.Sprintf("%s not found: %s", resource, id),
		map[string]interface{}{"resource": resource, "id": id})
}

// NewForbiddenError creates a permission-denied error
func NewForbiddenError(workspaceID, permission string) *StandardError {
	return NewStandardError(ErrorCodeForbidden,
		fmt.Sprintf("missing permission %q in workspace %s", permission, workspaceID),
		map[string]interface{}{"workspace_id": workspaceID, "permission": permission})
}

// NewValidationError reports a rejected request field
func NewValidationError(field, reason string) *StandardError {
	return NewStandardError(ErrorCodeValidationError,
		fmt.Sprintf("Validation failed for field '%s': %s", field, reason),
		map[string]interface{}{"field": field, "reason": reason})
}

// NewInternalError creates an internal error wrapping an underlying cause
func NewInternalError(message string, cause error) *StandardError {
	details := map[string]interface{}{}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return NewStandardError(ErrorCodeInternalError, message, details)
}

// NewDatabaseError creates a storage-layer error
func NewDatabaseError(operation string, cause error) *StandardError {
	details := map[string]interface{}{"operation": operation}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return NewStandardError(ErrorCodeDatabaseError,
		fmt.Sprintf("storage operation failed: %s", operation), details)
}

// WithTraceID attaches the request trace ID so the failure can be correlated
func (e *StandardError) WithTraceID(traceID string) *StandardError {
	e.ErrorInfo.TraceID = traceID
	return e
}

// ToHTTPStatus maps the error code to an HTTP status code
func (e *StandardError) ToHTTPStatus() int {
	switch e.ErrorInfo.Code {
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeValidationError, ErrorCodeRequiredField, ErrorCodeInvalidValue:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeInternalError, ErrorCodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTPError writes the error as an HTTP response
func (e *StandardError) WriteHTTPError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if e.ErrorInfo.TraceID != "" {
		w.Header().Set("X-Trace-ID", e.ErrorInfo.TraceID)
	}
	w.WriteHeader(e.ToHTTPStatus())

	data, err := json.Marshal(e)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}

// AsStandardError unwraps an error into a StandardError, converting unknown
// errors into internal errors
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError("unexpected error", err)
}

// IsNotFound reports whether the error is a not-found error
func IsNotFound(err error) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.ErrorInfo.Code == ErrorCodeNotFound
}

// IsAuthorization reports whether the error is an authorization failure
func IsAuthorization(err error) bool {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) {
		return false
	}
	return stdErr.ErrorInfo.Code == ErrorCodeUnauthorized || stdErr.ErrorInfo.Code == ErrorCodeForbidden
}
