// Package errors provides standardized error handling for the knowledge
// engine and its BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Source adapter errors: recovered locally as empty contributions,
	// never surfaced to the workflow as hard errors.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeMalformedRecord   ErrorCode = "MALFORMED_RECORD"

	// Extraction / context build errors.
	ErrCodeExtractionFailed   ErrorCode = "EXTRACTION_FAILED"
	ErrCodeContextBuildFailed ErrorCode = "CONTEXT_BUILD_FAILED"
	ErrCodeInvalidUserID      ErrorCode = "INVALID_USER_ID"
	ErrCodeRosterLookupFailed ErrorCode = "ROSTER_LOOKUP_FAILED"

	// Infrastructure errors.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout            ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeWorkflowEngineFailed     ErrorCode = "WORKFLOW_ENGINE_FAILED"

	// Worker surface errors.
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ConvertToBPMNError converts a StandardError into its BPMN representation.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
	}
}

// GetRetryCount returns how many retries a given error code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryTimeout, ErrCodeSearchTimeout,
		ErrCodeWorkflowEngineFailed:
		return 3
	case ErrCodeQueryExecutionFailed, ErrCodeSearchQueryFailed, ErrCodeSourceUnavailable:
		return 2
	case ErrCodeCacheUnavailable:
		return 1
	default:
		return 0
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeSourceUnavailable, ErrCodeMalformedRecord:
		return "source"
	case ErrCodeExtractionFailed, ErrCodeContextBuildFailed, ErrCodeRosterLookupFailed:
		return "engine"
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout,
		ErrCodeSearchQueryFailed, ErrCodeSearchTimeout, ErrCodeCacheUnavailable,
		ErrCodeWorkflowEngineFailed:
		return "infrastructure"
	case ErrCodeInvalidUserID, ErrCodeInputValidationFailed:
		return "input"
	default:
		return "unknown"
	}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewSourceUnavailableError creates a retryable source adapter error.
func NewSourceUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceUnavailable,
		Message:   "Source adapter unavailable",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRecordError creates a non-retryable record error. The record
// is skipped during extraction, never a fatal abort.
func NewMalformedRecordError(source, recordID, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRecord,
		Message:   "Record missing required fields",
		Details:   fmt.Sprintf("source: %s, recordId: %s, reason: %s", source, recordID, reason),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidUserIDError creates the one error that propagates to callers:
// invocation with a missing or invalid userId argument.
func NewInvalidUserIDError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidUserID,
		Message:   "Missing or invalid userId argument",
		Details:   fmt.Sprintf("userId: %q", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRosterLookupFailedError creates a retryable roster provider error.
func NewRosterLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRosterLookupFailed,
		Message:   "Roster provider lookup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search query failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowEngineFailedError creates a retryable workflow engine error.
func NewWorkflowEngineFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowEngineFailed,
		Message:   "Workflow engine operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputValidationFailedError creates a non-retryable worker input error.
func NewInputValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Job input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
