package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error for transport mapping and retry policy.
type ErrorCode string

const (
	// Validation errors: bad input, safe to retry with corrected input.
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeInvalidSchedule  ErrorCode = "INVALID_SCHEDULE"
	CodeInvalidBasePrice ErrorCode = "INVALID_BASE_PRICE"
	CodeUnsupportedChannel ErrorCode = "UNSUPPORTED_CHANNEL"
	CodeCapacityExceeded ErrorCode = "CAPACITY_EXCEEDED"

	// Business-rule errors: no side effect, require a different action.
	CodeAdmissionWindow   ErrorCode = "ADMISSION_WINDOW_VIOLATION"
	CodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"
	CodePaymentIncomplete ErrorCode = "PAYMENT_INCOMPLETE"

	// Conflict errors: transient, safe to retry after re-reading state.
	CodeConflict ErrorCode = "CONFLICT_DETECTED"

	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error is a typed domain error carrying a stable code alongside the message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code so callers can use errors.Is with sentinel values.
func (e *Error) Is(target error) bool {
	var de *Error
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// CodeOf extracts the error code, defaulting to CodeInternal for
// untyped errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsRetryable reports whether the caller may safely retry the same call
// after re-reading current state.
func IsRetryable(err error) bool {
	return CodeOf(err) == CodeConflict
}

func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

func NewInvalidScheduleError(value string) *Error {
	return &Error{Code: CodeInvalidSchedule, Message: fmt.Sprintf("invalid schedule date: %q", value)}
}

func NewInvalidBasePriceError(baseCents int64) *Error {
	return &Error{Code: CodeInvalidBasePrice, Message: fmt.Sprintf("base price must be positive, got %d cents", baseCents)}
}

func NewUnsupportedChannelError(channel string) *Error {
	return &Error{Code: CodeUnsupportedChannel, Message: fmt.Sprintf("unsupported booking channel: %q", channel)}
}

func NewCapacityExceededError(requested, max int) *Error {
	return &Error{
		Code:    CodeCapacityExceeded,
		Message: fmt.Sprintf("party of %d exceeds product capacity of %d", requested, max),
	}
}

func NewAdmissionWindowError(leadHours float64, minLeadHours int) *Error {
	return &Error{
		Code: CodeAdmissionWindow,
		Message: fmt.Sprintf(
			"bookings must be made at least %d hours in advance (%.1f hours remaining); enable the emergency override for urgent requests",
			minLeadHours, leadHours,
		),
	}
}

func NewIllegalTransitionError(from, to string) *Error {
	return &Error{
		Code:    CodeIllegalTransition,
		Message: fmt.Sprintf("illegal status transition from %q to %q", from, to),
	}
}

func NewPaymentIncompleteError(paymentStatus string) *Error {
	return &Error{
		Code: CodePaymentIncomplete,
		Message: fmt.Sprintf(
			"booking cannot be completed while payment status is %q; mark payment as paid first",
			paymentStatus,
		),
	}
}

func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func NewInternalError(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}
