// Package errors provides standardized error handling for the mail assistant.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors: fatal at startup.
	ErrCodeConfigInvalid           ErrorCode = "CONFIG_INVALID"
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"

	// Mail transport errors: abort the current poll cycle, retried next interval.
	ErrCodeMailConnectionFailed ErrorCode = "MAIL_CONNECTION_FAILED"
	ErrCodeMailFetchFailed      ErrorCode = "MAIL_FETCH_FAILED"
	ErrCodeMailSendFailed       ErrorCode = "MAIL_SEND_FAILED"

	// Per-message errors: the message is skipped, the batch continues.
	ErrCodeMessageParseFailed ErrorCode = "MESSAGE_PARSE_FAILED"

	// Generation errors: the reply for that email is skipped this cycle.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewConfigInvalidError creates a fatal configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid or missing configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileValidationFailedError creates a fatal business-profile validation error.
func NewProfileValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileValidationFailed,
		Message:   "Business profile failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailConnectionFailedError creates a retryable mailbox connection error.
func NewMailConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailConnectionFailed,
		Message:   "Failed to connect to mail server",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailFetchFailedError creates a retryable mailbox fetch error.
func NewMailFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailFetchFailed,
		Message:   "Failed to fetch messages from mailbox",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMailSendFailedError creates a retryable mail delivery error.
func NewMailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMailSendFailed,
		Message:   "Failed to send reply",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageParseFailedError creates a non-retryable single-message parse error.
func NewMessageParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageParseFailed,
		Message:   "Failed to parse inbound message",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a generation backend error. The reply is
// skipped for the current cycle; the next poll attempts the message afresh
// only if it is still unseen upstream.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Response generation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsFatal reports whether an error code must abort startup.
func IsFatal(code ErrorCode) bool {
	switch code {
	case ErrCodeConfigInvalid, ErrCodeProfileValidationFailed:
		return true
	default:
		return false
	}
}

// AsStandardError extracts a StandardError from an error chain, if present.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIG") || strings.Contains(codeStr, "PROFILE"):
		return "CONFIG"
	case strings.Contains(codeStr, "MAIL") || strings.Contains(codeStr, "MESSAGE"):
		return "MAIL"
	case strings.Contains(codeStr, "GENERATION"):
		return "AI"
	default:
		return "OTHER"
	}
}
