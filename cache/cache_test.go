package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore_PutGet(t *testing.T) {
	s := New[string](time.Minute)
	s.Put("k", "v")

	got, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "v" {
		t.Errorf("expected v, got %s", got)
	}
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	s := New[int](time.Minute)
	if _, ok := s.Get("nope"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	s := New[string](50 * time.Millisecond)
	s.Put("k", "v")

	if _, ok := s.Get("k"); !ok {
		t.Fatal("expected hit before TTL")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Error("expected miss after TTL")
	}
	if s.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, len=%d", s.Len())
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	s := New[string](time.Minute)
	s.Put("k", "old")
	s.Put("k", "new")

	got, _ := s.Get("k")
	if got != "new" {
		t.Errorf("expected new, got %s", got)
	}
	if s.Len() != 1 {
		t.Errorf("expected single entry, len=%d", s.Len())
	}
}

func TestStore_Clear(t *testing.T) {
	s := New[string](time.Minute)
	s.Put("a", "1")
	s.Put("b", "2")

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty store, len=%d", s.Len())
	}
	if _, ok := s.Get("a"); ok {
		t.Error("expected miss after clear")
	}
}

func TestStore_DisabledTTL(t *testing.T) {
	s := New[string](0)
	s.Put("k", "v")

	if _, ok := s.Get("k"); ok {
		t.Error("expected zero-TTL store to never hit")
	}
	if s.Len() != 0 {
		t.Errorf("expected zero-TTL store to hold nothing, len=%d", s.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[int](time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%10)
			s.Put(key, n)
			s.Get(key)
		}(i)
	}
	wg.Wait()

	if s.Len() != 10 {
		t.Errorf("expected 10 distinct keys, len=%d", s.Len())
	}
}
