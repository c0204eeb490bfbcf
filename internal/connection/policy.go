package connection

import (
	"time"

	"github.com/gorilla/websocket"
)

// ReconnectPolicy is the pure backoff-schedule calculator for the
// reconnect loop. It keeps no state; the Manager owns the attempt
// counter.
type ReconnectPolicy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// DefaultReconnectPolicy returns the standard schedule: 1s doubling up
// to 30s, at most 5 attempts.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		MaxAttempts: 5,
	}
}

// NextDelay returns the wait before retry number attempt:
// min(BaseDelay * 2^attempt, MaxDelay).
func (p ReconnectPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Shifting past 62 bits overflows time.Duration long before MaxDelay matters.
	if attempt >= 62 {
		return p.MaxDelay
	}
	delay := p.BaseDelay << uint(attempt)
	if delay <= 0 || delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// ShouldRetry reports whether another attempt should be scheduled after
// a close with the given code. Normal closure is never retried.
func (p ReconnectPolicy) ShouldRetry(attempt, closeCode int) bool {
	if closeCode == websocket.CloseNormalClosure {
		return false
	}
	return attempt < p.MaxAttempts
}
