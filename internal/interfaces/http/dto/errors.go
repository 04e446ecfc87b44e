package dto

import (
	"net/http"
	"strings"
)

// Error codes surfaced to API clients. Domain error codes pass through
// unchanged so clients can match on the same vocabulary the engine uses
// internally.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeConflictRetryable  = "CONFLICT_RETRYABLE"
	ErrCodeGuardrailViolation = "GUARDRAIL_VIOLATION"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeInternal           = "INTERNAL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Guardrail violations are 422: the request was well-formed but the
// mutation it asked for is not allowed against current state.
// Retryable conflicts are 409 so clients know to re-read and retry.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInvalidState:       http.StatusConflict,
	ErrCodeConflictRetryable:  http.StatusConflict,
	ErrCodeGuardrailViolation: http.StatusUnprocessableEntity,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped INVALID_* codes are treated as client input errors; anything
// else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
