package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{
			name:   "domain error passes through",
			err:    NewConflict("username already exists", nil),
			code:   CodeConflict,
			status: http.StatusConflict,
		},
		{
			name:   "wrapped domain error",
			err:    fmt.Errorf("create worker: %w", NewValidationError("bad", nil)),
			code:   CodeValidation,
			status: http.StatusBadRequest,
		},
		{
			name:   "fiber error",
			err:    fiber.NewError(http.StatusForbidden, "insufficient role"),
			code:   CodeForbidden,
			status: http.StatusForbidden,
		},
		{
			name:   "unknown error",
			err:    errors.New("boom"),
			code:   CodeInternal,
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.Equal(t, tt.code, de.Code)
			require.Equal(t, tt.status, de.HTTPStatus)
		})
	}

	require.Nil(t, ToDomainError(nil))
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistenceError(cause)

	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodePersistence))
	require.False(t, IsCode(cause, CodePersistence))
}
