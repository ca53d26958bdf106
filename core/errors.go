package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

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

// StorageError wraps a collaborator I/O failure. It is transient: callers
// may retry the operation with backoff without changing their input.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func (err StorageError) Error() string {
	if err.Err == nil {
		return err.Op
	}
	return err.Op + ": " + err.Err.Error()
}

func (err StorageError) Unwrap() error { return err.Err }

func IsStorageUnavailable(err error) bool {
	_, ok := errors.Cause(err).(*StorageError)
	return ok
}

// PartialWriteError indicates that an atomic marker+payload write failed
// halfway and could not be rolled back. It is fatal for the request and
// must be logged for operator follow-up; it is never surfaced as success.
type PartialWriteError struct {
	Op  string
	Err error
}

func NewPartialWriteError(op string, err error) error {
	return &PartialWriteError{Op: op, Err: err}
}

func (err PartialWriteError) Error() string {
	msg := "partial write detected: " + err.Op
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err PartialWriteError) Unwrap() error { return err.Err }

func IsPartialWrite(err error) bool {
	_, ok := errors.Cause(err).(*PartialWriteError)
	return ok
}

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
