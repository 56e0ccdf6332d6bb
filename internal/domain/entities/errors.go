package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Credential errors
	ErrMissingCredential = errors.New("API credential is required, please set it in the settings")
	ErrInvalidCredential = errors.New("API credential must start with 'sk-'")

	// Input errors
	ErrEmptyTranscript     = errors.New("transcript text is empty")
	ErrInvalidMeetingDate  = errors.New("meeting date must be formatted as YYYY-MM-DD")
	ErrUnsupportedFileType = errors.New("please upload a text file (.txt)")
	ErrFileTooLarge        = errors.New("please upload a file smaller than 100MB")

	// Pipeline errors
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrInvalidTransition    = errors.New("invalid stage transition")

	// Document errors
	ErrNoDocument         = errors.New("no minutes document available")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrUnknownField       = errors.New("unknown action item field")
	ErrInvalidDeadline    = errors.New("deadline must be formatted as YYYY-MM-DD")
	ErrEmptyRecipientList = errors.New("recipient list is empty")
	ErrInvalidRecipient   = errors.New("recipient is empty")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrMinutesNotFound = errors.New("minutes not found")
)

// TransportError reports a failed or non-success call to the generation endpoint
type TransportError struct {
	StatusCode int // zero when no response was received
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API request failed: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response that is not a minutes document
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed generation response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed generation response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IndexOutOfRangeError reports a document mutation on an invalid position
type IndexOutOfRangeError struct {
	Collection string
	Index      int
	Length     int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Collection, e.Index, e.Length)
}
