package domain

import "errors" // errors.As for kind extraction

// ErrorKind classifies every failure the services can return.
// Unauthorized, NotFound, InvalidAmount and InvalidState surface
// synchronously to callers; the remaining kinds are pipeline step
// failures recorded on the transaction itself, never returned from
// Initiate.
type ErrorKind string

// Error kinds
const (
	KindUnauthorized        ErrorKind = "UNAUTHORIZED"          // Invalid or expired session token
	KindNotFound            ErrorKind = "NOT_FOUND"             // Unknown transaction, property or user id
	KindInvalidAmount       ErrorKind = "INVALID_AMOUNT"        // Non-positive transaction amount
	KindInvalidState        ErrorKind = "INVALID_STATE"         // Operation not valid for current status
	KindValidation          ErrorKind = "VALIDATION_ERROR"      // Rejected input data
	KindDuplicate           ErrorKind = "DUPLICATE"             // Uniqueness constraint violated
	KindPropertyUnavailable ErrorKind = "PROPERTY_UNAVAILABLE"  // Property already consumed by another sale
	KindPropertyUpdateError ErrorKind = "PROPERTY_UPDATE_ERROR" // Property directory write failed
	KindCommissionError     ErrorKind = "COMMISSION_ERROR"      // Commission computation failed
)

// Error is a failure with a machine-readable kind and a human-readable message
type Error struct {
	Kind    ErrorKind // Classification for callers
	Message string    // Human-readable cause
	Err     error     // Wrapped underlying error, may be nil
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is/As
func (e *Error) Unwrap() error { return e.Err }

// NewError creates an error with a kind and message
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an error with a kind, message and underlying cause
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err carries no kind
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
