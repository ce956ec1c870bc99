package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them through errors.Is.
var (
	ErrNotFound     = errors.New("document not found")
	ErrWriteFailed  = errors.New("document write failed")
	ErrDeleteFailed = errors.New("document delete failed")
	ErrReadOnly     = errors.New("store is in read-only mode")
	ErrNotWatchable = errors.New("store does not support watching")
)

// NotFoundError is returned by Read when a document is absent or unreadable.
// ID is empty when the failure comes from a collection scan.
type NotFoundError struct {
	Collection string
	ID         string
	Err        error
}

// NewNotFoundError builds a NotFoundError. cause may be nil.
func NewNotFoundError(collection, id string, cause error) *NotFoundError {
	return &NotFoundError{Collection: collection, ID: id, Err: cause}
}

func (e *NotFoundError) Error() string {
	var msg string
	if e.ID == "" {
		msg = fmt.Sprintf("collection %q could not be read", e.Collection)
	} else {
		msg = fmt.Sprintf("document %q not found in collection %q", e.ID, e.Collection)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error        { return e.Err }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// WriteFailedError is returned by Write on any underlying failure.
type WriteFailedError struct {
	Collection string
	ID         string
	Err        error
}

// NewWriteFailedError builds a WriteFailedError.
func NewWriteFailedError(collection, id string, cause error) *WriteFailedError {
	return &WriteFailedError{Collection: collection, ID: id, Err: cause}
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("failed to write document %q to collection %q: %v", e.ID, e.Collection, e.Err)
}

func (e *WriteFailedError) Unwrap() error        { return e.Err }
func (e *WriteFailedError) Is(target error) bool { return target == ErrWriteFailed }

// DeleteFailedError is returned by Delete on any underlying failure.
type DeleteFailedError struct {
	Collection string
	ID         string
	Err        error
}

// NewDeleteFailedError builds a DeleteFailedError.
func NewDeleteFailedError(collection, id string, cause error) *DeleteFailedError {
	return &DeleteFailedError{Collection: collection, ID: id, Err: cause}
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("failed to delete document %q from collection %q: %v", e.ID, e.Collection, e.Err)
}

func (e *DeleteFailedError) Unwrap() error        { return e.Err }
func (e *DeleteFailedError) Is(target error) bool { return target == ErrDeleteFailed }

// IsNotFound reports whether err is, or wraps, a NotFound error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
