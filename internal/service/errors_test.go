package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(cause, ErrCatalogFetch, "failed to fetch top rated movies").
		WithContext("page", 1)

	msg := err.Error()
	assert.Contains(t, msg, "[CatalogFetch]")
	assert.Contains(t, msg, "failed to fetch top rated movies")
	assert.Contains(t, msg, "page=1")
	assert.Contains(t, msg, "connection refused")
}

func TestBotErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(cause, ErrDelivery, "delivery failed")

	assert.ErrorIs(t, err, cause)
}

func TestIsErrorType(t *testing.T) {
	err := NewError(ErrJudgment, "judgment failed")

	assert.True(t, IsErrorType(err, ErrJudgment))
	assert.False(t, IsErrorType(err, ErrDelivery))
	assert.False(t, IsErrorType(errors.New("plain"), ErrJudgment))

	// Wrapped typed errors are still recognized.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsErrorType(wrapped, ErrJudgment))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "CorruptState", ErrCorruptState.String())
	assert.Equal(t, "CatalogFetch", ErrCatalogFetch.String())
	assert.Equal(t, "Judgment", ErrJudgment.String())
	assert.Equal(t, "Generation", ErrGeneration.String())
	assert.Equal(t, "Delivery", ErrDelivery.String())
	assert.Equal(t, "Unknown", ErrUnknown.String())
}

func TestGetAdviceDistinctPerKind(t *testing.T) {
	h := NewDefaultErrorHandler()

	kinds := []ErrorType{ErrCorruptState, ErrCatalogFetch, ErrJudgment, ErrGeneration, ErrDelivery, ErrConfig}
	seen := map[string]bool{}
	for _, kind := range kinds {
		advice := h.GetAdvice(NewError(kind, "x"))
		require.NotEmpty(t, advice)
		seen[advice] = true
	}
	// Judgment and Generation share advice; all others are distinct.
	assert.GreaterOrEqual(t, len(seen), len(kinds)-1)
}

func TestSafeExecuteRecoversPanic(t *testing.T) {
	err := SafeExecute(func() error {
		panic("boom")
	})
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrUnknown))
	assert.Contains(t, err.Error(), "boom")
}

func TestSafeExecutePassesThrough(t *testing.T) {
	assert.NoError(t, SafeExecute(func() error { return nil }))

	want := errors.New("plain failure")
	assert.Equal(t, want, SafeExecute(func() error { return want }))
}
