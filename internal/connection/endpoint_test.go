package connection

import (
	"testing"

	"github.com/lexconnect/conversa/internal/model"
)

func TestEndpoint(t *testing.T) {
	id := model.Identity{ConversationID: "c1", Token: "t1"}

	cases := []struct {
		base string
		want string
	}{
		{"http://api.lexconnect.example", "ws://api.lexconnect.example/api/v1/ws/conversation/c1?token=t1"},
		{"https://api.lexconnect.example", "wss://api.lexconnect.example/api/v1/ws/conversation/c1?token=t1"},
		{"http://localhost:8080", "ws://localhost:8080/api/v1/ws/conversation/c1?token=t1"},
		{"wss://api.lexconnect.example", "wss://api.lexconnect.example/api/v1/ws/conversation/c1?token=t1"},
	}

	for _, c := range cases {
		got, err := Endpoint(c.base, id)
		if err != nil {
			t.Errorf("Endpoint(%q) failed: %v", c.base, err)
			continue
		}
		if got != c.want {
			t.Errorf("Endpoint(%q) = %q, want %q", c.base, got, c.want)
		}
	}
}

func TestEndpoint_RejectsUnknownScheme(t *testing.T) {
	_, err := Endpoint("ftp://api.example", model.Identity{ConversationID: "c1", Token: "t1"})
	if err == nil {
		t.Error("expected error for ftp scheme")
	}
}

func TestEndpoint_EscapesConversationID(t *testing.T) {
	got, err := Endpoint("https://api.example", model.Identity{ConversationID: "c 1/x", Token: "t1"})
	if err != nil {
		t.Fatalf("Endpoint failed: %v", err)
	}
	want := "wss://api.example/api/v1/ws/conversation/c%201%2Fx?token=t1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
