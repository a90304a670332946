package service

import (
	"errors"
)

var (
	// ErrValidation marks user-correctable input errors.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a clash with an active client's document.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an unknown or deleted client id.
	ErrNotFound = errors.New("client not found")
)

// Kind classifies a service error for callers that map it to a response.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// KindOf returns the Kind of err. Unclassified errors, including nil, are KindUnexpected.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnexpected
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnexpected
	}
}

// ValidationError reports the first invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// classifiedError carries a client-facing message for a sentinel kind.
type classifiedError struct {
	kind    error
	message string
}

func (e *classifiedError) Error() string { return e.message }

func (e *classifiedError) Unwrap() error { return e.kind }

func conflictError(msg string) error {
	return &classifiedError{kind: ErrConflict, message: msg}
}

func notFoundError(msg string) error {
	return &classifiedError{kind: ErrNotFound, message: msg}
}
