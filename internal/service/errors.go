package service

import (
	"errors"
	"fmt"
)

// ErrNotFound means the task does not exist or belongs to another user;
// the two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ValidationError is malformed or out-of-policy input. The message is safe
// to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StorageError is a backend failure. The wrapped cause is for logs only;
// callers see a generic message.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage failure" }

func (e *StorageError) Unwrap() error { return e.Err }
