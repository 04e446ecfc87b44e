package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConflictRetryable = NewDomainError("CONFLICT_RETRYABLE", "Resource is locked by another mutation, retry with fresh state")
	ErrInternal          = NewDomainError("INTERNAL", "Internal error")
)

// GuardrailReason identifies which business guardrail rejected a mutation
type GuardrailReason string

const (
	// GuardrailOverpayment means the payment amount exceeds the invoice balance
	GuardrailOverpayment GuardrailReason = "OVERPAYMENT"
	// GuardrailInvoiceNotPayable means the invoice is in a terminal state (paid/cancelled)
	GuardrailInvoiceNotPayable GuardrailReason = "INVOICE_NOT_PAYABLE"
	// GuardrailInsufficientStock means an outbound quantity exceeds the stock at the source location
	GuardrailInsufficientStock GuardrailReason = "INSUFFICIENT_STOCK"
	// GuardrailNegativeStock means an adjustment would take a location below zero without a correction flag
	GuardrailNegativeStock GuardrailReason = "NEGATIVE_STOCK"
	// GuardrailPriceDeviation means a line price deviates from catalog beyond the allowed threshold
	GuardrailPriceDeviation GuardrailReason = "PRICE_DEVIATION"
	// GuardrailDiscountCap means the requested discount percentage exceeds the cap
	GuardrailDiscountCap GuardrailReason = "DISCOUNT_CAP"
)

// String returns the string representation of GuardrailReason
func (r GuardrailReason) String() string {
	return string(r)
}

// GuardrailError is returned when a business guardrail rejects a mutation.
// It is an expected business outcome, not an infrastructure failure: the
// enclosing unit of work is rolled back and the reason is surfaced to the caller.
type GuardrailError struct {
	Reason  GuardrailReason `json:"reason"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *GuardrailError) Error() string {
	return fmt.Sprintf("guardrail violation (%s): %s", e.Reason, e.Message)
}

// NewGuardrailError creates a new guardrail error
func NewGuardrailError(reason GuardrailReason, format string, args ...any) *GuardrailError {
	return &GuardrailError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsGuardrailViolation reports whether err is a guardrail rejection
func IsGuardrailViolation(err error) bool {
	var ge *GuardrailError
	return errors.As(err, &ge)
}

// GuardrailReasonOf extracts the guardrail reason from err, if any
func GuardrailReasonOf(err error) (GuardrailReason, bool) {
	var ge *GuardrailError
	if errors.As(err, &ge) {
		return ge.Reason, true
	}
	return "", false
}

// IsNotFound reports whether err represents a missing resource
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrNotFound.Code
}

// IsConflictRetryable reports whether err represents a lock/serialization
// conflict that the caller may retry with a fresh state read
func IsConflictRetryable(err error) bool {
	if errors.Is(err, ErrConflictRetryable) {
		return true
	}
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrConflictRetryable.Code
}

// IsInvalidState reports whether err represents a mutation attempted on a
// terminal aggregate
func IsInvalidState(err error) bool {
	if errors.Is(err, ErrInvalidState) {
		return true
	}
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrInvalidState.Code
}

// IsValidation reports whether err represents malformed input caught before
// any transaction was opened
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrInvalidInput.Code
}
