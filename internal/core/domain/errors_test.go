package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Uniqueness tests that all sentinel errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnsupportedType,
		ErrStorageCodeMismatch,
		ErrHandlerClosed,
		ErrNoReadyEvents,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindFatal, "fatal"},
		{KindFatalRetriable, "fatal_retriable"},
		{KindRetriable, "retriable"},
		{KindUnprocessableEvent, "unprocessable"},
		{ErrorKind(0), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestErrorKind_Retriable(t *testing.T) {
	assert.False(t, KindFatal.Retriable())
	assert.True(t, KindFatalRetriable.Retriable())
	assert.True(t, KindRetriable.Retriable())
	assert.False(t, KindUnprocessableEvent.Retriable())
}

func TestIndexingError_Wrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFatalRetriableError("dial failed", cause)

	assert.Equal(t, "fatal_retriable: dial failed", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("expand event: %w", err)
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindFatalRetriable, kind)
	assert.True(t, IsRetriable(wrapped))
	assert.False(t, IsFatal(wrapped))
}

func TestKindOf_Unclassified(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsRetriable(nil))
	assert.False(t, IsUnprocessable(ErrInvalidInput))
}

func TestConstructors(t *testing.T) {
	assert.True(t, IsFatal(NewFatalError("bad token", nil)))
	assert.True(t, IsRetriable(NewRetriableError("timeout", nil)))
	assert.True(t, IsUnprocessable(NewUnprocessableEventError("no such object", nil)))
}
