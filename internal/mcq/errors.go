package mcq

import (
	"errors"

	httperrors "github.com/gokatarajesh/mcq-platform/pkg/http/errors"
)

// Kind classifies failures of the read operations.
type Kind int

const (
	KindInternal Kind = iota
	KindValidationFailed
	KindUnauthorized
	KindAlreadyPosted
	KindNoSchedule
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return httperrors.ErrCodeValidationFailed
	case KindUnauthorized:
		return httperrors.ErrCodeUnauthorized
	case KindAlreadyPosted:
		return httperrors.ErrCodeAlreadyPosted
	case KindNoSchedule:
		return httperrors.ErrCodeNoSchedule
	case KindNotFound:
		return httperrors.ErrCodeNotFound
	default:
		return httperrors.ErrCodeInternalError
	}
}

// Error is a user-facing failure. Err holds the cause for Internal failures.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized  = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrAlreadyPosted = &Error{Kind: KindAlreadyPosted, Message: "You have already posted a question on this topic this week"}
	ErrNoSchedule    = &Error{Kind: KindNoSchedule, Message: "No schedule found for this topic"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "Question not found"}
)

// Validation builds a ValidationFailed error.
func Validation(message string) error {
	return &Error{Kind: KindValidationFailed, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// KindOf returns the kind of err; errors not produced by this package are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
