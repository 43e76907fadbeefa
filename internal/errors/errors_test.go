package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidationError, http.StatusBadRequest},
		{ErrorCodeRateLimited, http.StatusTooManyRequests},
		{ErrorCodeDatabaseError, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewStandardError(tt.code, "boom", nil)
			assert.Equal(t, tt.want, err.ToHTTPStatus())
		})
	}
}

func TestWriteHTTPError(t *testing.T) {
	err := NewNotFoundError("event", "evt-404").WithTraceID("trace-1234")

	recorder := httptest.NewRecorder()
	err.WriteHTTPError(recorder)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "trace-1234", recorder.Header().Get("X-Trace-ID"))
	assert.Contains(t, recorder.Body.String(), "event not found: evt-404")
}

func TestAsStandardError(t *testing.T) {
	t.Run("passes through standard errors even when wrapped", func(t *testing.T) {
		original := NewForbiddenError("ws-1", "events.sync")
		wrapped := fmt.Errorf("sync failed: %w", original)

		unwrapped := AsStandardError(wrapped)
		assert.Equal(t, ErrorCodeForbidden, unwrapped.ErrorInfo.Code)
	})

	t.Run("converts plain errors to internal", func(t *testing.T) {
		converted := AsStandardError(errors.New("plain"))
		assert.Equal(t, ErrorCodeInternalError, converted.ErrorInfo.Code)
	})
}

func TestClassifiers(t *testing.T) {
	notFound := NewNotFoundError("task", "t-1")
	forbidden := NewForbiddenError("ws-1", "events.view")

	require.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(forbidden))
	assert.True(t, IsAuthorization(forbidden))
	assert.True(t, IsAuthorization(fmt.Errorf("wrapped: %w", forbidden)))
	assert.False(t, IsAuthorization(errors.New("plain")))
}
