package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestManager_MemoryOnly(t *testing.T) {
	m := NewManager(2, "", "login")
	base := time.Unix(1_700_000_000, 0)
	m.nowFn = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		result, err := m.Allow(context.Background(), "client")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	result, err := m.Allow(context.Background(), "client")
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if result.Allowed {
		t.Fatalf("third request should be denied")
	}

	m.nowFn = func() time.Time { return base.Add(time.Second) }
	if result, _ := m.Allow(context.Background(), "client"); !result.Allowed {
		t.Fatalf("next window should be allowed")
	}
}

func TestManager_DisabledLimit(t *testing.T) {
	m := NewManager(0, "", "login")
	if result, err := m.Allow(context.Background(), "client"); err != nil || !result.Allowed {
		t.Fatalf("disabled manager should always allow, got %+v err %v", result, err)
	}
}

func TestManager_BreakerFallsBackToMemory(t *testing.T) {
	// An unreachable Redis address trips the breaker on first use and the
	// manager keeps serving from memory.
	m := NewManager(1, "127.0.0.1:1", "login")
	base := time.Unix(1_700_000_000, 0)
	m.nowFn = func() time.Time { return base }

	result, err := m.Allow(context.Background(), "client")
	if err != nil {
		t.Fatalf("allow with broken redis: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("first request should fall back to memory and be allowed")
	}
	if !m.isBreakerActive(base) {
		t.Fatalf("breaker should be active after a redis failure")
	}

	if result, _ := m.Allow(context.Background(), "client"); result.Allowed {
		t.Fatalf("second request in the window should be denied by the memory limiter")
	}
}
