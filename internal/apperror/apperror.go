// Package apperror defines the closed set of failure kinds the service and
// mapper layers report. Each failure is raised at the point of detection
// and travels unchanged to the HTTP boundary, where response.Error turns
// it into a status code and an envelope.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed.
type Kind int

const (
	// Internal covers anything not raised through this package.
	Internal Kind = iota
	NotFound
	AlreadyExists
	InvalidRequest
	IdentifierMismatch
	MalformedDate
	UnexpectedNull
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	case InvalidRequest:
		return "invalid_request"
	case IdentifierMismatch:
		return "identifier_mismatch"
	case MalformedDate:
		return "malformed_date"
	case UnexpectedNull:
		return "unexpected_null"
	default:
		return "internal"
	}
}

// Error carries a kind and a message that is safe to show to clients.
// Err, when set, is the underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, apperror.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound           = &Error{Kind: NotFound, Message: "not found"}
	ErrAlreadyExists      = &Error{Kind: AlreadyExists, Message: "already exists"}
	ErrInvalidRequest     = &Error{Kind: InvalidRequest, Message: "invalid request"}
	ErrIdentifierMismatch = &Error{Kind: IdentifierMismatch, Message: "identifier mismatch"}
	ErrMalformedDate      = &Error{Kind: MalformedDate, Message: "malformed date"}
	ErrUnexpectedNull     = &Error{Kind: UnexpectedNull, Message: "unexpected null"}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return newf(NotFound, format, args...)
}

func NewAlreadyExists(format string, args ...any) *Error {
	return newf(AlreadyExists, format, args...)
}

func NewInvalidRequest(format string, args ...any) *Error {
	return newf(InvalidRequest, format, args...)
}

func NewIdentifierMismatch(pathID, payloadID int64) *Error {
	return newf(IdentifierMismatch,
		"path id %d does not match payload id %d", pathID, payloadID)
}

// NewMalformedDate reports a temporal value that does not match the layout.
func NewMalformedDate(field, value, pattern string, cause error) *Error {
	return &Error{
		Kind:    MalformedDate,
		Message: fmt.Sprintf("field %s: %q does not match pattern %s", field, value, pattern),
		Err:     cause,
	}
}

func NewUnexpectedNull(format string, args ...any) *Error {
	return newf(UnexpectedNull, format, args...)
}

// KindOf classifies err. Errors not produced by this package are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
