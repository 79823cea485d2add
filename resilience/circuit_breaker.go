// Package resilience provides the fault-tolerance primitives that adapters
// compose: a circuit breaker and a token bucket rate limiter.
package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows trial requests to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this circuit breaker for metrics/logging.
	Name string
	// FailureThreshold is the damped failure count that opens the circuit.
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before probing.
	RecoveryTimeout time.Duration
	// HalfOpenMaxCalls is the number of successes in half-open that close the circuit.
	HalfOpenMaxCalls int
	// OnStateChange is called when state changes.
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// CircuitBreaker tracks the health of a single external dependency as a
// three-state machine. Failures in the closed state raise a counter and
// successes lower it, so isolated failures do not trip the breaker; the
// threshold is only reached by a sustained net excess of failures.
//
// The open-to-half-open transition is computed lazily from elapsed time on
// every read. There is no background timer.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	lastFailureTime time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 60 * time.Second
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// RecordSuccess records a successful call against the breaker.
// In the closed state it decrements the failure count toward zero rather
// than resetting it, preserving the sliding-window damping.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		if cb.failures > 0 {
			cb.failures--
		}
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.HalfOpenMaxCalls {
			cb.toState(StateClosed)
		}
	case StateOpen:
		// A straggler that started before the trip; the circuit stays open.
	}
}

// RecordFailure records a failed call against the breaker.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()

	switch cb.currentState() {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.toState(StateOpen)
		}
	case StateHalfOpen:
		cb.toState(StateOpen)
	case StateOpen:
		// Already open; the fresh failure timestamp extends the cooldown.
	}
}

// TimeUntilRecovery returns how long until an open circuit transitions to
// half-open, and zero when the circuit is not open.
func (cb *CircuitBreaker) TimeUntilRecovery() time.Duration {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.currentState() != StateOpen {
		return 0
	}
	remaining := cb.config.RecoveryTimeout - time.Since(cb.lastFailureTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset forces the breaker to the closed state with zeroed counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.toState(StateClosed)
	cb.failures = 0
	cb.successes = 0
	cb.lastFailureTime = time.Time{}
}

// Failures returns the current damped failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Successes returns the success count accumulated in the half-open state.
func (cb *CircuitBreaker) Successes() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.successes
}

// currentState returns the current state, applying the lazy open-to-half-open
// transition once the recovery timeout has elapsed. Callers must hold mu.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen {
		if time.Since(cb.lastFailureTime) >= cb.config.RecoveryTimeout {
			cb.toState(StateHalfOpen)
		}
	}
	return cb.state
}

// toState transitions to a new state. Callers must hold mu.
func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to

	switch to {
	case StateClosed:
		cb.failures = 0
		cb.successes = 0
	case StateHalfOpen:
		cb.successes = 0
	case StateOpen:
		cb.successes = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
