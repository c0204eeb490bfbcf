package session

import (
	"sync"
	"testing"

	"github.com/lexconnect/conversa/internal/model"
)

// fakeTransport records Connect/Disconnect calls.
type fakeTransport struct {
	mu          sync.Mutex
	connects    []model.Identity
	disconnects int
}

func (f *fakeTransport) Connect(identity model.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, identity)
}

func (f *fakeTransport) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
}

func (f *fakeTransport) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.connects), f.disconnects
}

func TestBind_ConnectsCompleteIdentity(t *testing.T) {
	tr := &fakeTransport{}
	c := NewCoordinator(tr, nil)

	c.Bind(model.Identity{ConversationID: "c1", Token: "t1"})

	connects, disconnects := tr.counts()
	if connects != 1 || disconnects != 0 {
		t.Errorf("connects=%d disconnects=%d, want 1/0", connects, disconnects)
	}

	id, bound := c.Current()
	if !bound || id.ConversationID != "c1" {
		t.Errorf("Current() = %+v bound=%v, want c1 bound", id, bound)
	}
}

func TestBind_IncompleteIdentityStaysIdle(t *testing.T) {
	tr := &fakeTransport{}
	c := NewCoordinator(tr, nil)

	c.Bind(model.Identity{ConversationID: "c1"}) // credential not loaded yet

	connects, _ := tr.counts()
	if connects != 0 {
		t.Errorf("connects=%d, want 0 for incomplete identity", connects)
	}

	if _, bound := c.Current(); !bound {
		t.Error("coordinator should remain bound while idle")
	}
}

func TestBind_IdentitySwitchTearsDownPrevious(t *testing.T) {
	tr := &fakeTransport{}
	c := NewCoordinator(tr, nil)

	c.Bind(model.Identity{ConversationID: "c1", Token: "t1"})
	c.Bind(model.Identity{ConversationID: "c2", Token: "t1"})

	connects, disconnects := tr.counts()
	if disconnects != 1 {
		t.Errorf("disconnects=%d, want exactly 1 for the c1 connection", disconnects)
	}
	if connects != 2 {
		t.Errorf("connects=%d, want 2", connects)
	}
	if tr.connects[1].ConversationID != "c2" {
		t.Errorf("second connect = %q, want c2", tr.connects[1].ConversationID)
	}
}

func TestTeardown_SkipsWhenSuperseded(t *testing.T) {
	tr := &fakeTransport{}
	c := NewCoordinator(tr, nil)
	id := model.Identity{ConversationID: "c1", Token: "t1"}

	// Hosting frameworks run setup, setup, then the first teardown.
	teardown1 := c.Bind(id)
	teardown2 := c.Bind(id)

	teardown1() // stale generation, must not touch the live connection

	connects, disconnects := tr.counts()
	if disconnects != 0 {
		t.Errorf("disconnects=%d after stale teardown, want 0", disconnects)
	}
	if connects != 2 {
		t.Errorf("connects=%d, want 2 (second is an idempotent no-op downstream)", connects)
	}

	teardown2()
	_, disconnects = tr.counts()
	if disconnects != 1 {
		t.Errorf("disconnects=%d after current teardown, want 1", disconnects)
	}

	if _, bound := c.Current(); bound {
		t.Error("coordinator should be unbound after teardown")
	}
}

func TestTeardown_SecondCallIsNoop(t *testing.T) {
	tr := &fakeTransport{}
	c := NewCoordinator(tr, nil)

	teardown := c.Bind(model.Identity{ConversationID: "c1", Token: "t1"})
	teardown()
	teardown()

	_, disconnects := tr.counts()
	if disconnects != 1 {
		t.Errorf("disconnects=%d, want 1 for duplicate teardown", disconnects)
	}
}

func TestBind_AfterTeardownReconnects(t *testing.T) {
	tr := &fakeTransport{}
	c := NewCoordinator(tr, nil)
	id := model.Identity{ConversationID: "c1", Token: "t1"}

	teardown := c.Bind(id)
	teardown()
	c.Bind(id)

	connects, disconnects := tr.counts()
	if connects != 2 || disconnects != 1 {
		t.Errorf("connects=%d disconnects=%d, want 2/1", connects, disconnects)
	}
}
