package connection

import (
	"sync"
	"time"
)

// TypingThrottle rate-limits and coalesces outbound typing signals.
//
// A typing:true burst is debounced so that at most one frame goes out
// per quiet window; typing:false is latency-sensitive and sent
// immediately. A value equal to the last one actually sent produces no
// wire traffic at all.
type TypingThrottle struct {
	debounce time.Duration

	mu       sync.Mutex
	lastSent bool
	timer    *time.Timer
}

// NewTypingThrottle creates a throttle with the given debounce window.
func NewTypingThrottle(debounce time.Duration) *TypingThrottle {
	return &TypingThrottle{debounce: debounce}
}

// Signal requests that isTyping be communicated to the peer via send.
func (t *TypingThrottle) Signal(isTyping bool, send func(bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isTyping {
		// A pending typing:true must never fire after the user stopped.
		t.stopTimerLocked()
		if !t.lastSent {
			return
		}
		t.lastSent = false
		go send(false)
		return
	}

	if t.lastSent {
		return
	}

	// Restart rather than stack the timer on repeated typing:true.
	t.stopTimerLocked()
	t.timer = time.AfterFunc(t.debounce, func() {
		t.mu.Lock()
		if t.timer == nil {
			// Cancelled between firing and acquiring the lock.
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.lastSent = true
		t.mu.Unlock()
		send(true)
	})
}

// Reset cancels any pending timer and clears the last-sent value.
// Called on conversation switch and on connection teardown so a stale
// typing signal never reaches a channel that no longer exists.
func (t *TypingThrottle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimerLocked()
	t.lastSent = false
}

func (t *TypingThrottle) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
