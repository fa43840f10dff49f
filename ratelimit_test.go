package callibella

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Burst(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !r.TryAcquire() {
			t.Fatalf("Acquire %d should succeed within the burst", i+1)
		}
	}
	if r.TryAcquire() {
		t.Error("Acquire beyond the burst should fail immediately")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	// 6000 RPM = 100 tokens/sec, so a drained bucket refills within
	// a few tens of milliseconds.
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 6000, BurstSize: 1})

	if !r.TryAcquire() {
		t.Fatal("First acquire should succeed")
	}
	if r.TryAcquire() {
		t.Fatal("Bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond)
	if !r.TryAcquire() {
		t.Error("Bucket should have refilled")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})
	if got := r.Available(); got != 60 {
		t.Errorf("Default bucket = %v, want 60", got)
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	r.TryAcquire() // drain

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Wait(ctx); err == nil {
		t.Error("Wait on a drained bucket should fail when the context expires")
	}
}

func TestRateLimitedProvider(t *testing.T) {
	inner := &scriptedProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 6000, BurstSize: 10})

	got, err := p.TranslateSegment(context.Background(), "story", "One.")
	if err != nil {
		t.Fatalf("TranslateSegment failed: %v", err)
	}
	if got != "[One.]" {
		t.Errorf("Result = %q", got)
	}

	if _, err := p.PlanBlock(context.Background(), "[One.]"); err != nil {
		t.Errorf("PlanBlock failed: %v", err)
	}
	if _, err := p.SpanVariants(context.Background(), "[One.]", "[One.]"); err != nil {
		t.Errorf("SpanVariants failed: %v", err)
	}

	if p.Limiter().Available() > 7.5 {
		t.Error("Each call should consume a token")
	}
}

func TestRateLimitedProvider_CancelledWait(t *testing.T) {
	inner := &scriptedProvider{}
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	p.Limiter().TryAcquire() // drain

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.TranslateSegment(ctx, "story", "One.")
	if err == nil {
		t.Fatal("Expected error from cancelled wait")
	}
	if inner.calls != 0 {
		t.Error("Inner provider should not be called when the wait fails")
	}
}
