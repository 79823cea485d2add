package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Call-path errors surfaced through adapter results.
const (
	// ErrCodeTimeout indicates the external operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCircuitOpen indicates the circuit breaker rejected the call.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeRateLimited indicates the token bucket was exhausted.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeInvalidResponse indicates the response failed domain validation.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	// ErrCodeCancelled indicates the caller cancelled the in-flight call.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeExecutionFailed indicates the external operation returned an error.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
)

// Configuration and directory errors.
const (
	// ErrCodeInvalidConfig indicates an adapter was constructed with bad configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeNotFound indicates the requested adapter is not registered.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:         true,
	ErrCodeCircuitOpen:     true,
	ErrCodeRateLimited:     true,
	ErrCodeInvalidResponse: true,
	ErrCodeExecutionFailed: true,
	ErrCodeCancelled:       false,
	ErrCodeInvalidConfig:   false,
	ErrCodeNotFound:        false,
	ErrCodeInternal:        false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
