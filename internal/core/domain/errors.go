package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown storage code or event type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStorageCodeMismatch indicates a handler was given a locator or event
	// that belongs to another storage system. This is a caller bug, never retried.
	ErrStorageCodeMismatch = errors.New("storage code mismatch")

	// ErrHandlerClosed indicates the event handler has been closed.
	ErrHandlerClosed = errors.New("event handler closed")

	// ErrNoReadyEvents indicates the event queue has nothing to process.
	ErrNoReadyEvents = errors.New("no ready events")
)

// ErrorKind classifies an indexing failure for retry decisions.
type ErrorKind int

const (
	// KindFatal is unrecoverable, e.g. invalid credentials. The owning job aborts.
	KindFatal ErrorKind = iota + 1

	// KindFatalRetriable means the connection is unusable but the operation
	// may succeed on a fresh connection. Retry with backoff.
	KindFatalRetriable

	// KindRetriable is a generic I/O failure. Retry with backoff.
	KindRetriable

	// KindUnprocessableEvent means the remote service rejected this specific
	// request. The event is marked failed; siblings are unaffected.
	KindUnprocessableEvent
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindFatalRetriable:
		return "fatal_retriable"
	case KindRetriable:
		return "retriable"
	case KindUnprocessableEvent:
		return "unprocessable"
	default:
		return "unknown"
	}
}

// Retriable reports whether the caller should retry with backoff.
func (k ErrorKind) Retriable() bool {
	return k == KindFatalRetriable || k == KindRetriable
}

// IndexingError is a classified failure. Classification happens once, where a
// remote call's outcome is observed; higher layers propagate it unchanged.
type IndexingError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *IndexingError) Unwrap() error {
	return e.Err
}

// NewFatalError creates a KindFatal error.
func NewFatalError(msg string, cause error) *IndexingError {
	return &IndexingError{Kind: KindFatal, Message: msg, Err: cause}
}

// NewFatalRetriableError creates a KindFatalRetriable error.
func NewFatalRetriableError(msg string, cause error) *IndexingError {
	return &IndexingError{Kind: KindFatalRetriable, Message: msg, Err: cause}
}

// NewRetriableError creates a KindRetriable error.
func NewRetriableError(msg string, cause error) *IndexingError {
	return &IndexingError{Kind: KindRetriable, Message: msg, Err: cause}
}

// NewUnprocessableEventError creates a KindUnprocessableEvent error.
func NewUnprocessableEventError(msg string, cause error) *IndexingError {
	return &IndexingError{Kind: KindUnprocessableEvent, Message: msg, Err: cause}
}

// KindOf returns the kind of the first IndexingError in err's chain.
// The second result is false if err carries no classification.
func KindOf(err error) (ErrorKind, bool) {
	var ie *IndexingError
	if errors.As(err, &ie) {
		return ie.Kind, true
	}
	return 0, false
}

// IsRetriable checks if err is classified as FatalRetriable or Retriable.
func IsRetriable(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind.Retriable()
}

// IsFatal checks if err is classified as Fatal.
func IsFatal(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindFatal
}

// IsUnprocessable checks if err is classified as UnprocessableEvent.
func IsUnprocessable(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindUnprocessableEvent
}
