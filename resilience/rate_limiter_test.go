package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiter_AllowsBurstThenDenies(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "test", Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Acquire() {
			t.Fatalf("acquire %d: expected token from full bucket", i)
		}
	}
	if rl.Acquire() {
		t.Fatal("expected denial once the burst is spent")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "test", Rate: 100, Burst: 5})

	for i := 0; i < 5; i++ {
		rl.Acquire()
	}
	if rl.Acquire() {
		t.Fatal("expected empty bucket")
	}

	// At 100 tokens/s, 60ms refills about 6 tokens, capped at burst 5.
	time.Sleep(60 * time.Millisecond)

	if !rl.Acquire() {
		t.Fatal("expected token after refill interval")
	}
}

func TestRateLimiter_TokensCapAtBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "test", Rate: 1000, Burst: 4})

	time.Sleep(20 * time.Millisecond)

	if got := rl.Tokens(); got > 4 {
		t.Fatalf("expected tokens capped at burst 4, got %f", got)
	}
}

func TestRateLimiter_DeniedAcquireStillAdvancesClock(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "test", Rate: 10, Burst: 2})

	rl.Acquire()
	rl.Acquire()

	// Repeated denied acquires each fold elapsed time into the bucket, so
	// partial refill accumulates across calls instead of being lost.
	deadline := time.Now().Add(500 * time.Millisecond)
	granted := false
	for time.Now().Before(deadline) {
		if rl.Acquire() {
			granted = true
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !granted {
		t.Fatal("expected a token within 500ms at 10 tokens/s")
	}
}

func TestRateLimiter_ConcurrentAcquiresRespectBurst(t *testing.T) {
	// Negligible refill rate makes the initial burst the only budget.
	rl := NewRateLimiter(RateLimiterConfig{Name: "test", Rate: 0.1, Burst: 10})

	var granted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Acquire() {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := granted.Load(); got != 10 {
		t.Errorf("expected exactly 10 grants, got %d", got)
	}
}

func TestRateLimiter_DefaultsApplied(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "test"})

	if rl.Rate() != 10 {
		t.Errorf("expected default rate 10, got %f", rl.Rate())
	}
	if rl.Burst() != 10 {
		t.Errorf("expected burst to fall back to rate, got %d", rl.Burst())
	}
}

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig("test")
	if cfg.Rate != 10.0 {
		t.Errorf("expected rate 10.0, got %f", cfg.Rate)
	}
	if cfg.Burst != 20 {
		t.Errorf("expected burst 20, got %d", cfg.Burst)
	}
}
