package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error shape returned to API clients
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Credential Errors
func ErrCredentialMissing() AppError {
	return AppError{
		HTTPCode: http.StatusPreconditionFailed,
		Code:     ErrorCode_CREDENTIAL_MISSING,
		Message:  "API credential is not configured",
	}
}

func ErrCredentialInvalid(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_CREDENTIAL_INVALID,
		Message:  "API credential must start with 'sk-'",
	}
}

func ErrCredentialStore(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_CREDENTIAL_STORE,
		Message:  fmt.Sprintf("Credential store operation failed: %s", operation),
	}
}

// Generation Errors
func ErrGenerationInProgress(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_GENERATION_IN_PROGRESS,
		Message:  "Minutes generation already in progress",
	}.WithDetail("session_id", sessionID)
}

func ErrGenerationTransport(status int, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_GENERATION_TRANSPORT,
		Message:  "Language model request failed",
	}.WithDetail("upstream_status", fmt.Sprintf("%d", status))
}

func ErrGenerationMalformed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_GENERATION_MALFORMED,
		Message:  "Language model returned an unusable document",
	}
}

func ErrTranscriptInvalid(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_TRANSCRIPT_INVALID,
		Message:  message,
	}
}

// Session Errors
func ErrSessionNotFound(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_SESSION_NOT_FOUND,
		Message:  "Session not found",
	}.WithDetail("session_id", sessionID)
}

func ErrSessionInvalidState(sessionID, currentState, expectedState string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_SESSION_INVALID_STATE,
		Message:  "Session is in invalid state",
	}.WithDetail("session_id", sessionID).
		WithDetail("current_state", currentState).
		WithDetail("expected_state", expectedState)
}

func ErrIndexOutOfRange(collection string, index, length int) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_DOCUMENT_INDEX_OUT_OF_RANGE,
		Message:  "Index out of range",
	}.WithDetail("collection", collection).
		WithDetail("index", fmt.Sprintf("%d", index)).
		WithDetail("length", fmt.Sprintf("%d", length))
}

// Distribution Errors
func ErrRecipientsEmpty() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_RECIPIENTS_EMPTY,
		Message:  "Please add at least one email address",
	}
}

// Integration Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}
