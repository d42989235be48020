// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_Error(t *testing.T) {
	err := NewInvalidUserIDError("")
	assert.Contains(t, err.Error(), "INVALID_USER_ID")
	assert.False(t, err.Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewSourceUnavailableError("profiles", errors.New("connection refused"))
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "SOURCE_UNAVAILABLE", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 2, bpmnErr.Retries)
	assert.Contains(t, bpmnErr.Details, "profiles")
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "EXTRACTION_FAILED",
		Message:   "extraction pass aborted",
		Retryable: true,
		ErrorVariables: map[string]interface{}{
			"source": "qa",
		},
	}

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "EXTRACTION_FAILED", vars["errorCode"])
	assert.Equal(t, true, vars["retryable"])
	assert.Equal(t, "qa", vars["source"])
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, 3, GetRetryCount(ErrCodeWorkflowEngineFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeSourceUnavailable))
	assert.Equal(t, 1, GetRetryCount(ErrCodeCacheUnavailable))
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidUserID))
	assert.Equal(t, 0, GetRetryCount(ErrCodeMalformedRecord))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "source", GetErrorCategory(ErrCodeSourceUnavailable))
	assert.Equal(t, "engine", GetErrorCategory(ErrCodeContextBuildFailed))
	assert.Equal(t, "infrastructure", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "input", GetErrorCategory(ErrCodeInvalidUserID))
	assert.Equal(t, "unknown", GetErrorCategory(ErrorCode("BOGUS")))
}

type captureLogger struct {
	msg    string
	fields map[string]interface{}
}

func (l *captureLogger) Error(msg string, fields map[string]interface{}) {
	l.msg = msg
	l.fields = fields
}

func TestErrorHandler_NormalizeError(t *testing.T) {
	h := NewErrorHandler(&captureLogger{})

	stdErr := h.normalizeError(NewInvalidUserIDError("x"))
	assert.Equal(t, ErrCodeInvalidUserID, stdErr.Code)

	wrapped := h.normalizeError(errors.New("boom"))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), wrapped.Code)
	assert.Equal(t, "boom", wrapped.Details)
	assert.False(t, wrapped.Retryable)
}

func TestErrorConstructors_Retryability(t *testing.T) {
	retryable := []*StandardError{
		NewSourceUnavailableError("surveys", errors.New("down")),
		NewRosterLookupFailedError(errors.New("down")),
		NewDatabaseConnectionFailedError(errors.New("down")),
		NewQueryExecutionFailedError("profiles", errors.New("syntax")),
		NewSearchQueryFailedError("status_notes", errors.New("down")),
		NewWorkflowEngineFailedError("deploy", errors.New("unavailable")),
	}
	for _, err := range retryable {
		assert.True(t, err.Retryable, string(err.Code))
		require.NotZero(t, err.Timestamp)
	}

	terminal := []*StandardError{
		NewMalformedRecordError("qa", "q1", "missing answer"),
		NewInvalidUserIDError(""),
		NewInputValidationFailedError("userId required"),
	}
	for _, err := range terminal {
		assert.False(t, err.Retryable, string(err.Code))
	}
}
