package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client errors so callers can route them without
// matching on HTTP status codes or message text.
type ErrorKind string

const (
	// KindValidation marks input rejected locally before any request was sent.
	KindValidation ErrorKind = "validation"
	// KindPermission marks 401/403 responses: the caller is not allowed to act.
	KindPermission ErrorKind = "permission"
	// KindNotFound marks 404 responses.
	KindNotFound ErrorKind = "not_found"
	// KindConflict marks 409 responses, typically an illegal status transition.
	KindConflict ErrorKind = "conflict"
	// KindRequest marks transport failures and any other non-2xx response.
	KindRequest ErrorKind = "request"
)

// Error is the error type returned by every Client method.
type Error struct {
	Kind       ErrorKind
	HTTPStatus int
	Message    string
	RequestID  string

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("sewabazaar: %s (%s, http %d)", e.Message, e.Kind, e.HTTPStatus)
	}
	return fmt.Sprintf("sewabazaar: %s (%s)", e.Message, e.Kind)
}

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case 401, 403:
		return KindPermission
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	default:
		return KindRequest
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsValidation reports whether err was rejected locally before being sent.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsPermission reports whether err is an authorization failure.
func IsPermission(err error) bool { return IsKind(err, KindPermission) }

// IsNotFound reports whether err is a missing-resource failure.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConflict reports whether err is a conflict, such as a rejected transition.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }
