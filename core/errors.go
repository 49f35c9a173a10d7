package core

import "github.com/pkg/errors"

// FieldError ties an error message to a single input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a user-facing input error. It carries either a single
// message (Err) or per-field messages (Fields); the HTTP layer renders both
// as 400 responses.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an unrecoverable integrity problem; the server drains and
// exits when it sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
