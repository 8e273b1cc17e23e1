package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	require.Error(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("Success_WrapKeepsChain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "conversation not found")
		require.Error(t, wrapped)
		assert.Equal(t, "conversation not found: not found", wrapped.Error())
		assert.True(t, Is(wrapped, ErrNotFound))
	})

	t.Run("Success_NilStaysNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "ignored"))
	})

	t.Run("Success_DoubleWrap", func(t *testing.T) {
		inner := Wrap(ErrUnauthorized, "token expired")
		outer := Wrap(inner, "session join")
		assert.True(t, Is(outer, ErrUnauthorized))
		assert.False(t, Is(outer, ErrForbidden))
	})
}

func TestAs(t *testing.T) {
	wrapped := Wrap(customError{Msg: "boom"}, "context")

	var target customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "boom", target.Msg)

	var other *customError
	assert.False(t, As(errors.New("plain"), &other))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrTooManyRequests,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
