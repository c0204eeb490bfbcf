package connection

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestReconnectPolicy_NextDelay(t *testing.T) {
	p := DefaultReconnectPolicy()

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // capped
		{6, 30 * time.Second},
		{100, 30 * time.Second},
		{-1, 1 * time.Second},
	}

	for _, c := range cases {
		if got := p.NextDelay(c.attempt); got != c.want {
			t.Errorf("NextDelay(%d) = %v, want %v", c.attempt, got, c.want)
		}
	}
}

func TestReconnectPolicy_ShouldRetry(t *testing.T) {
	p := DefaultReconnectPolicy()

	if p.ShouldRetry(0, websocket.CloseNormalClosure) {
		t.Error("normal closure must never be retried")
	}
	if !p.ShouldRetry(0, websocket.CloseAbnormalClosure) {
		t.Error("first abnormal close should be retried")
	}
	if !p.ShouldRetry(4, websocket.CloseGoingAway) {
		t.Error("attempt 4 should still be retried")
	}
	if p.ShouldRetry(5, websocket.CloseAbnormalClosure) {
		t.Error("attempt 5 exhausts the budget")
	}
	if p.ShouldRetry(6, websocket.CloseInternalServerErr) {
		t.Error("attempts past the budget must not retry")
	}
}
