package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "missing", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "missing" {
		t.Errorf("expected message 'missing', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_Timeout(t *testing.T) {
	err := Timeout("policy-engine", 5*time.Second)
	if err.Code != ErrCodeTimeout {
		t.Errorf("expected TIMEOUT, got %s", err.Code)
	}
	if err.Details["adapter"] != "policy-engine" {
		t.Errorf("expected adapter=policy-engine, got %v", err.Details["adapter"])
	}
	if err.Details["timeout"] != "5s" {
		t.Errorf("expected timeout=5s, got %v", err.Details["timeout"])
	}
	if !err.Retryable {
		t.Error("Timeout should be retryable")
	}
}

func TestAppError_CircuitOpen_CarriesRetryAfter(t *testing.T) {
	err := CircuitOpen("smt-solver", 42*time.Second)
	if err.Code != ErrCodeCircuitOpen {
		t.Errorf("expected CIRCUIT_OPEN, got %s", err.Code)
	}
	retryAfter, ok := err.Details["retry_after_seconds"].(float64)
	if !ok {
		t.Fatalf("expected float retry_after_seconds, got %T", err.Details["retry_after_seconds"])
	}
	if retryAfter != 42 {
		t.Errorf("expected 42 seconds, got %v", retryAfter)
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", err.HTTPStatus)
	}
}

func TestAppError_RateLimited(t *testing.T) {
	err := RateLimited("llm")
	if err.Code != ErrCodeRateLimited {
		t.Errorf("expected RATE_LIMITED, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", err.HTTPStatus)
	}
	if !err.Retryable {
		t.Error("RateLimited should be retryable")
	}
}

func TestAppError_InvalidResponse(t *testing.T) {
	err := InvalidResponse("llm")
	if err.Code != ErrCodeInvalidResponse {
		t.Errorf("expected INVALID_RESPONSE, got %s", err.Code)
	}
	if !strings.Contains(err.Message, "validation") {
		t.Errorf("expected message to mention validation, got %q", err.Message)
	}
}

func TestAppError_Cancelled_NotRetryable(t *testing.T) {
	err := Cancelled("policy-engine")
	if err.Code != ErrCodeCancelled {
		t.Errorf("expected CANCELLED, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("Cancelled should not be retryable")
	}
}

func TestAppError_ExecutionFailed_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ExecutionFailed("smt-solver", cause)
	if err.Code != ErrCodeExecutionFailed {
		t.Errorf("expected EXECUTION_FAILED, got %s", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected Error() to include cause, got %q", err.Error())
	}
}

func TestAppError_InvalidConfig(t *testing.T) {
	err := InvalidConfig("timeout: must be non-negative")
	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("InvalidConfig should not be retryable")
	}
}

func TestAppError_NotFound(t *testing.T) {
	err := NotFound("ghost")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details["adapter"] != "ghost" {
		t.Errorf("expected adapter=ghost, got %v", err.Details["adapter"])
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := Internal(nil).WithDetail("attempt", 3)
	if err.Details["attempt"] != 3 {
		t.Errorf("expected attempt=3, got %v", err.Details["attempt"])
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := New(ErrCodeTimeout, "deadline exceeded", http.StatusGatewayTimeout)
	want := "TIMEOUT: deadline exceeded"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	withCause := err.WithCause(fmt.Errorf("dial tcp: i/o timeout"))
	if !strings.Contains(withCause.Error(), "cause: dial tcp") {
		t.Errorf("expected cause in error string, got %q", withCause.Error())
	}
}

func TestAsAppError(t *testing.T) {
	appErr := RateLimited("x")
	wrapped := fmt.Errorf("outer: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to unwrap")
	}
	if got.Code != ErrCodeRateLimited {
		t.Errorf("expected RATE_LIMITED, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected plain error to not be an AppError")
	}
}

func TestIsCode(t *testing.T) {
	err := CircuitOpen("x", time.Second)
	if !IsCode(err, ErrCodeCircuitOpen) {
		t.Error("expected IsCode to match CIRCUIT_OPEN")
	}
	if IsCode(err, ErrCodeTimeout) {
		t.Error("expected IsCode to reject TIMEOUT")
	}
	if IsCode(nil, ErrCodeTimeout) {
		t.Error("expected IsCode(nil) to be false")
	}
}

func TestToResponse(t *testing.T) {
	err := CircuitOpen("llm", 10*time.Second)
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeCircuitOpen {
		t.Errorf("expected CIRCUIT_OPEN, got %s", resp.Error.Code)
	}
	if !resp.Error.Retryable {
		t.Error("expected retryable in response body")
	}
	if resp.Error.Details["adapter"] != "llm" {
		t.Errorf("expected adapter detail, got %v", resp.Error.Details)
	}
}

func TestIsRetryableCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeCircuitOpen, true},
		{ErrCodeRateLimited, true},
		{ErrCodeInvalidResponse, true},
		{ErrCodeExecutionFailed, true},
		{ErrCodeCancelled, false},
		{ErrCodeInvalidConfig, false},
		{ErrCodeNotFound, false},
		{ErrCodeInternal, false},
		{ErrorCode("UNKNOWN"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
