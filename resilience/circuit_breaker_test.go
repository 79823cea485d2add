package resilience

import (
	"sync"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAtFailureThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != StateClosed {
		t.Fatalf("expected closed below threshold, got %s", cb.State())
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("expected open at threshold, got %s", cb.State())
	}
}

func TestCircuitBreaker_SuccessDampsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})

	// Two failures, one success: the success decrements the count rather
	// than resetting it, so two more failures are needed to trip.
	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	if got := cb.Failures(); got != 1 {
		t.Fatalf("expected damped count 1, got %d", got)
	}

	cb.RecordFailure()
	if cb.State() != StateClosed {
		t.Fatalf("expected closed at count 2, got %s", cb.State())
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("expected open at count 3, got %s", cb.State())
	}
}

func TestCircuitBreaker_SuccessCountFloorsAtZero(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("test"))

	cb.RecordSuccess()
	cb.RecordSuccess()
	if got := cb.Failures(); got != 0 {
		t.Fatalf("expected failure count to stay at 0, got %d", got)
	}
}

func TestCircuitBreaker_SuccessCannotCloseOpenCircuit(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	// A late success from an in-flight call must not close the circuit.
	cb.RecordSuccess()
	if cb.State() != StateOpen {
		t.Fatalf("expected circuit to remain open, got %s", cb.State())
	}
}

func TestCircuitBreaker_TransitionsToHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		RecoveryTimeout:  50 * time.Millisecond,
	})

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	time.Sleep(60 * time.Millisecond)

	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half_open after recovery timeout, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenClosesAfterMaxSuccesses(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	cb.RecordFailure()
	time.Sleep(30 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half_open, got %s", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half_open after one success, got %s", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after two successes, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("expected counters zeroed on close, failures=%d", cb.Failures())
	}
}

func TestCircuitBreaker_HalfOpenReopensOnFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
		HalfOpenMaxCalls: 3,
	})

	cb.RecordFailure()
	time.Sleep(30 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half_open, got %s", cb.State())
	}

	cb.RecordSuccess()
	cb.RecordFailure()

	if cb.State() != StateOpen {
		t.Fatalf("expected reopen on half-open failure, got %s", cb.State())
	}
	if got := cb.TimeUntilRecovery(); got <= 0 {
		t.Errorf("expected fresh cooldown after reopen, got %s", got)
	}
}

func TestCircuitBreaker_TimeUntilRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})

	if got := cb.TimeUntilRecovery(); got != 0 {
		t.Fatalf("expected 0 while closed, got %s", got)
	}

	cb.RecordFailure()
	got := cb.TimeUntilRecovery()
	if got <= 0 || got > time.Minute {
		t.Fatalf("expected remaining cooldown in (0, 1m], got %s", got)
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	cb.Reset()

	if cb.State() != StateClosed {
		t.Fatalf("expected closed after reset, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("expected zeroed failures, got %d", cb.Failures())
	}
	if got := cb.TimeUntilRecovery(); got != 0 {
		t.Errorf("expected no cooldown after reset, got %s", got)
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	type transition struct{ from, to State }
	var mu sync.Mutex
	var transitions []transition

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
		HalfOpenMaxCalls: 1,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			transitions = append(transitions, transition{from, to})
			mu.Unlock()
		},
	})

	cb.RecordFailure()
	time.Sleep(30 * time.Millisecond)
	cb.State()
	cb.RecordSuccess()

	mu.Lock()
	defer mu.Unlock()
	want := []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}
	if len(transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(transitions), transitions)
	}
	for i, tr := range want {
		if transitions[i] != tr {
			t.Errorf("transition %d: expected %s->%s, got %s->%s",
				i, tr.from, tr.to, transitions[i].from, transitions[i].to)
		}
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 50,
		RecoveryTimeout:  time.Minute,
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				cb.RecordFailure()
			} else {
				cb.RecordSuccess()
			}
			cb.State()
			cb.TimeUntilRecovery()
		}(i)
	}
	wg.Wait()

	// 50 failures and 50 damping successes interleaved; the breaker must
	// still be in a coherent state with a bounded counter.
	if got := cb.Failures(); got < 0 || got > 50 {
		t.Errorf("failure count out of bounds: %d", got)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half_open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
