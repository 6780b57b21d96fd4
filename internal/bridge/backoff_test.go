package bridge_test

import (
	"testing"
	"time"

	"nostrcord/internal/bridge"
)

func TestBackoff_JitterWithinBounds(t *testing.T) {
	b := bridge.Backoff{Base: time.Second, Cap: time.Minute}
	for i := 0; i < 20; i++ {
		b.Reset()
		d := b.Next()
		if d < 500*time.Millisecond || d > time.Second {
			t.Fatalf("first delay %v outside [base/2, base]", d)
		}
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	b := bridge.Backoff{Base: time.Second, Cap: 8 * time.Second}

	var prevMax time.Duration
	for i := 0; i < 10; i++ {
		d := b.Next()
		if d > 8*time.Second {
			t.Fatalf("delay %v exceeds cap", d)
		}
		if i < 3 && d <= prevMax/2 {
			t.Fatalf("delay %v did not grow past previous ceiling %v", d, prevMax)
		}
		prevMax = d
	}
}

func TestBackoff_ResetRestartsSchedule(t *testing.T) {
	b := bridge.Backoff{Base: time.Second, Cap: time.Minute}
	for i := 0; i < 5; i++ {
		b.Next()
	}
	b.Reset()
	if d := b.Next(); d > time.Second {
		t.Fatalf("delay after reset %v exceeds base", d)
	}
}

func TestConnState_String(t *testing.T) {
	if got := bridge.StateConnected.String(); got != "connected" {
		t.Fatalf("got %q", got)
	}
	if got := bridge.StateDisconnected.String(); got != "disconnected" {
		t.Fatalf("got %q", got)
	}
}
