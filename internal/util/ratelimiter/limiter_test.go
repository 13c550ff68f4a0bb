package ratelimiter

import (
	"testing"
	"time"
)

func TestLimiter_FirstActionAllowed(t *testing.T) {
	l := New(100 * time.Millisecond)

	allowed, wait := l.Allow()
	if !allowed {
		t.Errorf("first action should be allowed, got wait %v", wait)
	}
}

func TestLimiter_SecondActionBlocked(t *testing.T) {
	l := New(100 * time.Millisecond)

	l.Allow()
	allowed, wait := l.Allow()
	if allowed {
		t.Error("second immediate action should be blocked")
	}
	if wait <= 0 || wait > 100*time.Millisecond {
		t.Errorf("wait = %v, want in (0, 100ms]", wait)
	}
}

func TestLimiter_AllowedAfterInterval(t *testing.T) {
	l := New(20 * time.Millisecond)

	l.Allow()
	time.Sleep(30 * time.Millisecond)

	allowed, _ := l.Allow()
	if !allowed {
		t.Error("action after interval elapsed should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(time.Hour)

	l.Allow()
	l.Reset()

	allowed, _ := l.Allow()
	if !allowed {
		t.Error("action after Reset should be allowed")
	}
}
