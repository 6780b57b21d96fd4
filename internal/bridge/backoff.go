package bridge

import (
	"math/rand/v2"
	"time"
)

// ConnState tracks one relay endpoint's connection lifecycle.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Backoff produces reconnect delays: exponential growth from Base up to Cap,
// with jitter in [d/2, d) so simultaneous failures across endpoints do not
// reconnect in lockstep. Each endpoint owns its own Backoff.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration

	attempt int
}

// Next returns the delay before the next attempt and advances the schedule.
func (b *Backoff) Next() time.Duration {
	d := b.Base << b.attempt
	if d <= 0 || d > b.Cap {
		d = b.Cap
	} else {
		b.attempt++
	}
	half := d / 2
	return half + rand.N(half+1)
}

// Reset restarts the schedule after a successful connection.
func (b *Backoff) Reset() { b.attempt = 0 }
