package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NoRedisAllowsEdit(t *testing.T) {
	l := NewLimiter(nil)
	res, err := l.Check(context.Background(), "203.0.113.7", 60, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed {
		t.Error("expected edit request allowed when Redis is nil")
	}
	if res.Remaining != 59 {
		t.Errorf("expected remaining=59, got %d", res.Remaining)
	}
	if res.RetryAfter != 0 {
		t.Errorf("allowed request must carry no retry hint, got %v", res.RetryAfter)
	}
	if !res.ResetAt.After(time.Now()) {
		t.Error("ResetAt should be in the future")
	}
}

func TestLimiter_NoRedisNeverThrottlesClient(t *testing.T) {
	l := NewLimiter(nil)
	// Without Redis the gateway must keep serving edits unprotected rather
	// than reject them.
	for i := 0; i < 100; i++ {
		res, _ := l.Check(context.Background(), "203.0.113.7", 10, time.Minute)
		if !res.Allowed {
			t.Fatalf("expected edit %d allowed without Redis", i)
		}
		if res.RetryAfter != 0 {
			t.Fatalf("edit %d: unexpected RetryAfter %v", i, res.RetryAfter)
		}
	}
}

func TestBucketKey_GatewayNamespace(t *testing.T) {
	if got := bucketKey("203.0.113.7"); got != "frameforge:rl:203.0.113.7" {
		t.Errorf("bucketKey = %q, want the frameforge:rl: namespace", got)
	}
}
