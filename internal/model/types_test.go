package model

import (
	"encoding/json"
	"testing"
)

func TestConnectionState_String(t *testing.T) {
	cases := []struct {
		state ConnectionState
		want  string
	}{
		{StateIdle, "idle"},
		{StateConnecting, "connecting"},
		{StateOpen, "open"},
		{StateClosing, "closing"},
		{StateClosed, "closed"},
		{ConnectionState(99), "unknown"},
	}

	for _, c := range cases {
		if got := c.state.String(); got != c.want {
			t.Errorf("State(%d).String() = %q, want %q", c.state, got, c.want)
		}
	}
}

func TestIdentity_Complete(t *testing.T) {
	if (Identity{}).Complete() {
		t.Error("empty identity should not be complete")
	}
	if (Identity{ConversationID: "c1"}).Complete() {
		t.Error("identity without token should not be complete")
	}
	if (Identity{Token: "t1"}).Complete() {
		t.Error("identity without conversation should not be complete")
	}
	if !(Identity{ConversationID: "c1", Token: "t1"}).Complete() {
		t.Error("populated identity should be complete")
	}
}

func TestIdentity_Equal(t *testing.T) {
	a := Identity{ConversationID: "c1", Token: "t1"}
	if !a.Equal(Identity{ConversationID: "c1", Token: "t1"}) {
		t.Error("identical identities should be equal")
	}
	if a.Equal(Identity{ConversationID: "c2", Token: "t1"}) {
		t.Error("different conversations should not be equal")
	}
	if a.Equal(Identity{ConversationID: "c1", Token: "t2"}) {
		t.Error("different tokens should not be equal")
	}
}

func TestMessage_JSON(t *testing.T) {
	data := `{"id":"m1","sender_id":7,"sender_role":"lawyer","text":"hello","timestamp":"2025-01-01T00:00:00Z","read_by_client":true,"read_by_lawyer":false}`

	var msg Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if msg.ID != "m1" {
		t.Errorf("ID = %q, want m1", msg.ID)
	}
	if msg.SenderID != 7 {
		t.Errorf("SenderID = %d, want 7", msg.SenderID)
	}
	if msg.SenderRole != RoleLawyer {
		t.Errorf("SenderRole = %q, want lawyer", msg.SenderRole)
	}
	if !msg.ReadByClient || msg.ReadByLawyer {
		t.Errorf("read flags = (%v, %v), want (true, false)", msg.ReadByClient, msg.ReadByLawyer)
	}
}
