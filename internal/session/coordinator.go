// Package session binds the transport to the currently active
// conversation identity.
//
// Hosting environments may invoke setup/teardown hooks for the same
// identity twice in rapid succession. The Coordinator absorbs that with
// a generation counter: each Bind captures the generation it ran under,
// and the teardown it returns only performs real work while that
// generation is still current.
package session

import (
	"log/slog"
	"sync"

	"github.com/lexconnect/conversa/internal/model"
)

// Transport is the connection surface the coordinator drives. Satisfied
// by *connection.Manager.
type Transport interface {
	Connect(identity model.Identity)
	Disconnect()
}

// Coordinator guarantees at most one live connection per identity and
// tears the previous one down on every identity change.
type Coordinator struct {
	transport Transport
	logger    *slog.Logger

	mu      sync.Mutex
	gen     uint64
	current model.Identity
	bound   bool
}

// NewCoordinator creates a coordinator over the given transport.
func NewCoordinator(transport Transport, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		transport: transport,
		logger:    logger,
	}
}

// Bind makes identity the current one and returns the paired teardown.
//
// Any previous binding is disconnected first. When identity is only
// partially populated (for example the credential has not loaded yet)
// the coordinator stays bound but idle and does not connect. The
// returned teardown is a no-op once a later Bind has superseded it.
func (c *Coordinator) Bind(identity model.Identity) (teardown func()) {
	c.mu.Lock()
	c.gen++
	gen := c.gen

	if c.bound && !c.current.Equal(identity) {
		c.logger.Debug("identity changed, tearing down previous binding",
			"previous", c.current.ConversationID,
			"next", identity.ConversationID,
		)
		c.transport.Disconnect()
	}

	c.current = identity
	c.bound = true
	c.mu.Unlock()

	if identity.Complete() {
		c.transport.Connect(identity)
	} else {
		c.logger.Debug("identity incomplete, staying idle",
			"conversation_set", identity.ConversationID != "",
			"token_set", identity.Token != "",
		)
	}

	return func() {
		c.mu.Lock()
		if gen != c.gen {
			// Superseded teardown from a duplicate setup/teardown cycle.
			c.mu.Unlock()
			return
		}
		if !c.bound {
			c.mu.Unlock()
			return
		}
		c.bound = false
		c.current = model.Identity{}
		c.mu.Unlock()

		c.transport.Disconnect()
	}
}

// Current returns the identity the coordinator is bound to, if any.
func (c *Coordinator) Current() (model.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.bound
}
