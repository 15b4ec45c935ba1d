package worker

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "10.0.0.1"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "10.0.0.2"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if n := limiter.buckets.ItemCount(); n != 2 {
		t.Errorf("expected 2 tracked keys, got %d", n)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, "k"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("client") {
		t.Error("first request should pass")
	}
	if limiter.Allow("client") {
		t.Error("expected allow to fail (exhausted tokens)")
	}
	if !limiter.Allow("other") {
		t.Error("expected allow for other key")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("k") {
			t.Fatalf("request %d rejected with limiting disabled", i)
		}
	}
}

func TestLimiter_IdleKeysExpire(t *testing.T) {
	limiter := newLimiter(0.001, 1, 20*time.Millisecond)

	for i := 0; i < 50; i++ {
		limiter.Allow(KeyForRemoteAddr(fmt.Sprintf("192.0.2.%d:4000", i)))
	}
	if n := limiter.buckets.ItemCount(); n != 50 {
		t.Fatalf("expected 50 tracked clients, got %d", n)
	}

	time.Sleep(100 * time.Millisecond)

	if n := limiter.buckets.ItemCount(); n != 0 {
		t.Errorf("expected idle clients to be dropped, %d remain", n)
	}
}

func TestLimiter_ActiveKeyKeepsBucket(t *testing.T) {
	limiter := newLimiter(0.001, 1, 60*time.Millisecond)

	if !limiter.Allow("client") {
		t.Fatal("first request should pass")
	}
	// Each rejected request restarts the idle timer, so the spent bucket survives
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		if limiter.Allow("client") {
			t.Fatalf("request %d passed on a spent bucket", i)
		}
	}

	time.Sleep(150 * time.Millisecond)
	if !limiter.Allow("client") {
		t.Error("expected a fresh bucket after the key went idle")
	}
}

func TestKeyForRemoteAddr(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:5555": "192.0.2.1",
		"[::1]:8080":     "::1",
		"no-port":        "no-port",
	}
	for in, want := range tests {
		if got := KeyForRemoteAddr(in); got != want {
			t.Errorf("KeyForRemoteAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
