package errors

import (
	"fmt"
	"time"
)

/**
 * Error types for the OCR adapter
 *
 * Every failure the adapter can report falls into one of two codes.
 * Message is what the caller sees in the "error" key; Error() is for logs.
 */

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Input errors
	ErrorMissingInput ErrorCode = "MISSING_INPUT"

	// Capability errors
	ErrorCapabilityFailure ErrorCode = "CAPABILITY_FAILURE"
)

// MissingInputMessage is reported when no image path is given.
const MissingInputMessage = "Image path required"

// AdapterError represents a structured adapter error
type AdapterError struct {
	Code      ErrorCode
	Message   string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *AdapterError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// Factory functions

func NewMissingInputError() *AdapterError {
	return &AdapterError{
		Code:      ErrorMissingInput,
		Message:   MissingInputMessage,
		Timestamp: time.Now(),
	}
}

// NewCapabilityFailureError keeps the cause's message verbatim as Message.
func NewCapabilityFailureError(engine string, cause error) *AdapterError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &AdapterError{
		Code:      ErrorCapabilityFailure,
		Message:   msg,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"engine": engine,
		},
		Cause: cause,
	}
}

// ToMap converts error to map for log output
func (e *AdapterError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
