// Package apperr defines the error taxonomy shared by the stores, the
// workflow core, and the HTTP boundary. Stores and the workflow return
// these; handlers translate them to HTTP statuses with HTTPStatus and
// never invent status codes of their own.
package apperr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "validation"
	CodeForbidden  Code = "forbidden"
	CodeConflict   Code = "conflict"
	CodeNotFound   Code = "not_found"

	// Assignment-graph precondition failures.
	CodeInvalidRole   Code = "invalid_role"
	CodeAlreadyMapped Code = "already_mapped"
	CodeNotMapped     Code = "not_mapped"

	// Request-number uniqueness clash; retried internally, surfaced only
	// when regeneration attempts are exhausted.
	CodeDuplicateIdentifier Code = "duplicate_identifier"

	CodeInternal Code = "internal"
)

type Error struct {
	Code    Code
	Message string
	Err     error // optional wrapped cause
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match against another *Error by code, so sentinel
// comparisons like errors.Is(err, apperr.Conflict("")) work without callers
// caring about the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a taxonomy error so the original error survives
// for logging while callers still match on the code.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Validation(msg string) *Error          { return New(CodeValidation, msg) }
func Forbidden(msg string) *Error           { return New(CodeForbidden, msg) }
func Conflict(msg string) *Error            { return New(CodeConflict, msg) }
func NotFound(msg string) *Error            { return New(CodeNotFound, msg) }
func InvalidRole(msg string) *Error         { return New(CodeInvalidRole, msg) }
func AlreadyMapped(msg string) *Error       { return New(CodeAlreadyMapped, msg) }
func NotMapped(msg string) *Error           { return New(CodeNotMapped, msg) }
func DuplicateIdentifier(msg string) *Error { return New(CodeDuplicateIdentifier, msg) }

// CodeOf extracts the taxonomy code from err, or CodeInternal for anything
// outside the taxonomy.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps a taxonomy code to its HTTP status.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict, CodeAlreadyMapped, CodeNotMapped, CodeDuplicateIdentifier:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidRole:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
