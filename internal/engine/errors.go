// Package engine provides the generation-engine core: chat abstraction,
// tool registry, and the run loop that drives tool-equipped sessions.
// This file contains error classification and handling.

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// RetryClass indicates whether an error should be retried.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"     // Definitely retry
	RetryClassMaybe        RetryClass = "maybe"         // Retry with caution (limited attempts)
	RetryClassNonRetryable RetryClass = "non_retryable" // Never retry
)

// EngineError wraps errors with classification metadata.
type EngineError struct {
	Err         error
	Class       RetryClass
	IsRateLimit bool
	IsTimeout   bool
	IsAuth      bool
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("engine error: %s", e.Class)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError with classification.
func NewEngineError(err error, class RetryClass) *EngineError {
	return &EngineError{
		Err:   err,
		Class: class,
	}
}

// ClassifyLLMError classifies an error from an LLM provider call.
func ClassifyLLMError(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Class
	}

	errStr := strings.ToLower(err.Error())

	// Rate limit errors (429) - retryable
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return RetryClassRetryable
	}

	// Server errors (5xx) - retryable
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "server error") ||
		strings.Contains(errStr, "internal error") {
		return RetryClassRetryable
	}

	// Network/timeout errors - retryable
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "eof") ||
		strings.Contains(errStr, "no such host") {
		return RetryClassRetryable
	}

	// Auth errors (401/403) - never retry
	if strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "invalid api key") ||
		strings.Contains(errStr, "forbidden") {
		return RetryClassNonRetryable
	}

	// Bad request (400) - never retry, the request itself is malformed
	if strings.Contains(errStr, "400") || strings.Contains(errStr, "bad request") {
		return RetryClassNonRetryable
	}

	return RetryClassMaybe
}

// RetryExhaustedError indicates all retry attempts have been used up.
type RetryExhaustedError struct {
	Operation string
	Attempts  int
	LastErr   error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}

// IsRetryExhausted reports whether err is (or wraps) a RetryExhaustedError.
func IsRetryExhausted(err error) bool {
	var exhausted *RetryExhaustedError
	return errors.As(err, &exhausted)
}
