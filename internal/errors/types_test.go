package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderErrorError(t *testing.T) {
	t.Run("code and message", func(t *testing.T) {
		err := NewValidationError("ERR_X", "bad input")
		assert.Equal(t, "[ERR_X] bad input", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewIOError(ErrCodeExportFailed, "write index.html", cause)
		assert.Equal(t, "[ERR_EXPORT_FAILED] write index.html: disk full", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("without code", func(t *testing.T) {
		err := &BuilderError{Message: "plain"}
		assert.Equal(t, "plain", err.Error())
	})
}

func TestBuilderErrorIs(t *testing.T) {
	a := ErrElementNotFound("a")
	b := ErrElementNotFound("b")
	c := ErrTemplateNotFound("a")

	assert.True(t, errors.Is(a, b), "same type and code should match")
	assert.False(t, errors.Is(a, c))

	wrapped := fmt.Errorf("handler: %w", a)
	assert.True(t, errors.Is(wrapped, b))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("ERR_X", "x").
		WithContext("type", "footer").
		WithContext("index", 3)

	require.NotNil(t, err.Context)
	assert.Equal(t, "footer", err.Context["type"])
	assert.Equal(t, 3, err.Context["index"])
}

func TestClassification(t *testing.T) {
	testCases := []struct {
		name        string
		err         error
		recoverable bool
		notFound    bool
		errType     ErrorType
		status      int
	}{
		{"validation", NewValidationError("V", "v"), true, false, ErrorTypeValidation, http.StatusBadRequest},
		{"not found", ErrElementNotFound("x"), true, true, ErrorTypeNotFound, http.StatusNotFound},
		{"origin", ErrInvalidOrigin("http://evil.example"), false, false, ErrorTypeValidation, http.StatusForbidden},
		{"config", NewConfigError(ErrCodeConfigInvalid, "c"), false, false, ErrorTypeConfig, http.StatusInternalServerError},
		{"plain", errors.New("boom"), false, false, ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.recoverable, IsRecoverable(tc.err))
			assert.Equal(t, tc.notFound, IsNotFound(tc.err))
			assert.Equal(t, tc.errType, TypeOf(tc.err))
			assert.Equal(t, tc.status, HTTPStatus(tc.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeTemplateNotFound, CodeOf(ErrTemplateNotFound("nope")))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	l.warns = append(l.warns, msg)
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	h := NewErrorHandler(logger)
	ctx := context.Background()

	h.Handle(ctx, nil)
	h.Handle(ctx, NewValidationError("V", "v"))
	h.Handle(ctx, NewInternalError(ErrCodeInternal, "i", nil))
	h.Handle(ctx, errors.New("plain"))

	assert.Len(t, logger.warns, 1)
	assert.Len(t, logger.errors, 2)
}
