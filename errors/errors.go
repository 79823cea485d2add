package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified error type for the adapter framework.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Call-path constructors ---

// Timeout creates a new AppError for an external operation that exceeded its deadline.
func Timeout(adapter string, timeout time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("call to %s exceeded the %s deadline", adapter, timeout),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"adapter": adapter, "timeout": timeout.String()},
	}
}

// CircuitOpen creates a new AppError for a call rejected by an open circuit.
// retryAfter is the remaining cooldown before the breaker probes again.
func CircuitOpen(adapter string, retryAfter time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeCircuitOpen, Message: fmt.Sprintf("circuit for %s is open", adapter),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{
			"adapter":             adapter,
			"retry_after_seconds": retryAfter.Seconds(),
		},
	}
}

// RateLimited creates a new AppError for a call denied by the token bucket.
func RateLimited(adapter string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("rate limit exceeded for %s", adapter),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"adapter": adapter},
	}
}

// InvalidResponse creates a new AppError for a response rejected by domain validation.
func InvalidResponse(adapter string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidResponse, Message: fmt.Sprintf("%s returned a response that failed validation", adapter),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"adapter": adapter},
	}
}

// Cancelled creates a new AppError for a call abandoned by its caller.
func Cancelled(adapter string) *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: fmt.Sprintf("call to %s was cancelled by the caller", adapter),
		HTTPStatus: http.StatusRequestTimeout, Retryable: false,
		Details: map[string]any{"adapter": adapter},
	}
}

// ExecutionFailed creates a new AppError wrapping a failure from the external operation.
func ExecutionFailed(adapter string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExecutionFailed, Message: fmt.Sprintf("call to %s failed", adapter),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"adapter": adapter}, Cause: cause,
	}
}

// --- Configuration and directory constructors ---

// InvalidConfig creates a new AppError for invalid adapter configuration.
// This is the only error in the taxonomy that surfaces at construction time.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for an adapter that is not registered.
func NotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("adapter %q is not registered", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"adapter": name},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
