package connection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lexconnect/conversa/internal/dedup"
	"github.com/lexconnect/conversa/internal/metrics"
	"github.com/lexconnect/conversa/internal/model"
	"github.com/lexconnect/conversa/internal/store"
)

// Manager owns the single transport connection for one conversation.
//
// All inbound frames are dispatched one at a time, in arrival order,
// from one read loop; the state store is the only place they mutate.
// Every Connect and Disconnect advances an epoch counter, and timers or
// read loops carrying an older epoch are recognized as stale and do
// nothing.
type Manager struct {
	cfg    ManagerConfig
	store  *store.Store
	dedup  *dedup.Set
	typing *TypingThrottle
	logger *slog.Logger

	// One ID per Manager instance, sent as X-Client-ID on every dial.
	clientID string

	mu         sync.Mutex
	identity   model.Identity
	client     Client
	state      model.ConnectionState
	attempts   int
	epoch      uint64
	retryTimer *time.Timer
}

// NewManager creates a Manager publishing into the given store.
func NewManager(cfg ManagerConfig, st *store.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TypingDebounce == 0 {
		cfg.TypingDebounce = 300 * time.Millisecond
	}
	def := DefaultClientConfig()
	if cfg.Client.HandshakeTimeout == 0 {
		cfg.Client.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.Client.PingTimeout == 0 {
		cfg.Client.PingTimeout = def.PingTimeout
	}
	if cfg.Client.PingInterval == 0 {
		cfg.Client.PingInterval = def.PingInterval
	}
	if cfg.Client.WriteTimeout == 0 {
		cfg.Client.WriteTimeout = def.WriteTimeout
	}
	if cfg.Client.BufferSize == 0 {
		cfg.Client.BufferSize = def.BufferSize
	}

	return &Manager{
		cfg:      cfg,
		store:    st,
		dedup:    dedup.NewSet(),
		typing:   NewTypingThrottle(cfg.TypingDebounce),
		logger:   logger,
		clientID: uuid.NewString(),
		state:    model.StateIdle,
	}
}

// State returns the current connection state.
func (m *Manager) State() model.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the current reconnect attempt counter.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Connect binds the manager to identity and opens the transport.
//
// An incomplete identity is logged and skipped, never an error: the
// credential may simply not have loaded yet. Connecting again with the
// identity already Open or Connecting is a no-op; a connection bound to
// a different identity is closed with a normal-closure code first.
func (m *Manager) Connect(identity model.Identity) {
	m.connect(identity, false, 0)
}

// connect opens the transport. When fromEpoch is set the call came from
// a retry timer and only proceeds while wantEpoch is still current; the
// check and the Connecting transition happen under one lock acquisition
// so a Disconnect cannot slip in between them.
func (m *Manager) connect(identity model.Identity, fromEpoch bool, wantEpoch uint64) {
	if !identity.Complete() {
		m.logger.Warn("connect skipped, identity incomplete",
			"conversation_set", identity.ConversationID != "",
			"token_set", identity.Token != "",
		)
		return
	}

	m.mu.Lock()
	if fromEpoch && (wantEpoch != m.epoch || !m.identity.Equal(identity)) {
		// Stale timer from an abandoned identity.
		m.mu.Unlock()
		return
	}
	if m.identity.Equal(identity) &&
		(m.state == model.StateOpen || m.state == model.StateConnecting) {
		m.mu.Unlock()
		return
	}

	m.stopRetryLocked()
	old := m.client
	m.client = nil

	if !m.identity.Equal(identity) {
		// IDs are only unique within one conversation; counters and
		// pending typing state belong to the old identity.
		m.dedup.Reset()
		m.typing.Reset()
		m.attempts = 0
	}

	endpoint, err := Endpoint(m.cfg.BaseURL, identity)
	if err != nil {
		m.logger.Error("cannot compose endpoint", "error", err)
		m.setStateLocked(model.StateClosed)
		m.mu.Unlock()
		if old != nil {
			old.Close()
		}
		return
	}

	m.identity = identity
	m.epoch++
	epoch := m.epoch
	m.setStateLocked(model.StateConnecting)

	clientCfg := m.cfg.Client
	clientCfg.URL = endpoint
	clientCfg.ClientID = m.clientID
	cl := NewClient(clientCfg, m.logger.With("conversation", identity.ConversationID))
	m.client = cl
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), clientCfg.HandshakeTimeout)
	defer cancel()

	if err := cl.Connect(ctx); err != nil {
		m.logger.Warn("dial failed", "error", err)
		m.handleClose(epoch, err)
		return
	}

	m.mu.Lock()
	if m.epoch != epoch {
		// Superseded while dialing; the newer owner controls the state now.
		m.mu.Unlock()
		cl.Close()
		return
	}
	m.attempts = 0
	m.setStateLocked(model.StateOpen)
	m.mu.Unlock()

	m.store.ClearError()
	m.logger.Info("connected", "conversation", identity.ConversationID)

	go m.readLoop(cl, epoch)
}

// Disconnect closes the active connection with a normal-closure code,
// cancels pending retry and typing timers, and clears the retry counter
// and the dedup set. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.stopRetryLocked()
	m.typing.Reset()
	m.dedup.Reset()
	m.attempts = 0
	m.epoch++
	epoch := m.epoch
	cl := m.client
	m.client = nil

	if cl == nil && (m.state == model.StateIdle || m.state == model.StateClosed) {
		m.mu.Unlock()
		return
	}
	m.setStateLocked(model.StateClosing)
	m.mu.Unlock()

	if cl != nil {
		cl.Close()
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.setStateLocked(model.StateClosed)
	}
	m.mu.Unlock()
}

// Reconnect is the explicit user-triggered override: it tears the
// connection down, zeroes the retry counter and reconnects immediately,
// bypassing backoff.
func (m *Manager) Reconnect() {
	m.mu.Lock()
	identity := m.identity
	m.mu.Unlock()

	m.Disconnect()
	m.store.ClearError()
	m.Connect(identity)
}

// Send forwards a send_message frame. Callers must wait for Open;
// frames are rejected rather than queued while Connecting or Closed.
func (m *Manager) Send(text string) error {
	cl, err := m.openClient()
	if err != nil {
		metrics.SendsRejected.Inc()
		return err
	}
	return m.sendFrame(cl, OutboundFrame{Type: FrameSendMessage, Text: text})
}

// MarkRead forwards a mark_read frame for the whole conversation.
func (m *Manager) MarkRead() error {
	cl, err := m.openClient()
	if err != nil {
		metrics.SendsRejected.Inc()
		return err
	}
	return m.sendFrame(cl, OutboundFrame{Type: FrameMarkRead})
}

// SignalTyping forwards the typing state through the throttle. No-op
// unless the connection is Open.
func (m *Manager) SignalTyping(isTyping bool) {
	cl, err := m.openClient()
	if err != nil {
		return
	}

	m.typing.Signal(isTyping, func(v bool) {
		val := v
		if err := m.sendFrame(cl, OutboundFrame{Type: FrameTyping, IsTyping: &val}); err != nil {
			m.logger.Debug("typing signal dropped", "error", err)
		}
	})
}

// openClient returns the active client when the state is Open.
func (m *Manager) openClient() (Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != model.StateOpen || m.client == nil {
		return nil, ErrNotConnected
	}
	return m.client, nil
}

func (m *Manager) sendFrame(cl Client, frame OutboundFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if err := cl.Send(data); err != nil {
		return err
	}
	metrics.FramesSent.WithLabelValues(frame.Type).Inc()
	return nil
}

// readLoop consumes one connection until it dies. Frames are handled to
// completion before the next is read, which is what guarantees the log
// reflects network-arrival order.
func (m *Manager) readLoop(cl Client, epoch uint64) {
	for {
		select {
		case err := <-cl.Errors():
			m.handleClose(epoch, err)
			return

		case data, ok := <-cl.Messages():
			if !ok {
				// Read loop ended. Any abnormal-close error was published
				// before the channel closed; absence means intentional Close.
				select {
				case err := <-cl.Errors():
					m.handleClose(epoch, err)
				default:
				}
				return
			}
			m.handleFrame(data)
		}
	}
}

// handleFrame parses and dispatches one inbound frame.
func (m *Manager) handleFrame(data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		m.logger.Warn("malformed frame dropped", "error", err)
		metrics.MalformedFrames.Inc()
		return
	}

	metrics.FramesReceived.WithLabelValues(frame.Type).Inc()

	switch frame.Type {
	case FrameConnectionEstablished:
		m.logger.Info("server acknowledged connection")

	case FrameNewMessage:
		if frame.Message == nil {
			m.logger.Warn("new_message frame without message")
			metrics.MalformedFrames.Inc()
			return
		}
		if m.dedup.Seen(frame.Message.ID) {
			m.logger.Debug("replayed message dropped", "id", frame.Message.ID)
			metrics.MessagesDeduped.Inc()
			return
		}
		m.dedup.MarkSeen(frame.Message.ID)
		m.store.Append(*frame.Message)

	case FrameTypingIndicator:
		if frame.IsTyping == nil {
			m.logger.Warn("typing_indicator frame without is_typing")
			return
		}
		m.store.SetRemoteTyping(*frame.IsTyping)

	case FrameReadReceipt:
		role := model.SenderRole(frame.UserType)
		if role != model.RoleClient && role != model.RoleLawyer {
			m.logger.Warn("read_receipt with unknown user_type", "user_type", frame.UserType)
			return
		}
		m.store.ApplyReadReceipt(frame.MessageIDs, role)

	case FrameError:
		m.logger.Warn("server reported error", "error", frame.Error)
		m.store.SetError(&ProtocolError{Message: frame.Error})

	default:
		// Forward-compatible: unknown types are logged and ignored.
		m.logger.Warn("unknown frame type", "type", frame.Type)
	}
}

// handleClose runs once per dead connection. A stale epoch means the
// identity changed or an explicit reconnect already superseded this
// connection, and the close is ignored.
func (m *Manager) handleClose(epoch uint64, cause error) {
	code := closeCode(cause)

	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		return
	}

	cl := m.client
	m.client = nil
	m.setStateLocked(model.StateClosed)

	// A pending typing:true or a stale last-sent value must not leak
	// onto the re-established channel.
	m.typing.Reset()

	if !m.cfg.Policy.ShouldRetry(m.attempts, code) {
		exhausted := code != websocket.CloseNormalClosure
		m.mu.Unlock()
		if cl != nil {
			cl.Close()
		}
		if exhausted {
			m.logger.Error("reconnect attempts exhausted", "attempts", m.cfg.Policy.MaxAttempts)
			m.store.SetError(ErrMaxReconnect)
		}
		return
	}

	delay := m.cfg.Policy.NextDelay(m.attempts)
	m.attempts++
	attempt := m.attempts
	identity := m.identity
	m.retryTimer = time.AfterFunc(delay, func() {
		m.retryConnect(epoch, identity)
	})
	m.mu.Unlock()

	if cl != nil {
		cl.Close()
	}

	metrics.Reconnects.Inc()
	m.logger.Info("connection lost, reconnect scheduled",
		"code", code,
		"cause", cause,
		"attempt", attempt,
		"delay", delay,
	)
}

// retryConnect is the reconnect timer callback.
func (m *Manager) retryConnect(epoch uint64, identity model.Identity) {
	m.connect(identity, true, epoch)
}

// stopRetryLocked cancels a scheduled reconnect. Caller holds m.mu.
func (m *Manager) stopRetryLocked() {
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}

// setStateLocked updates the state and mirrors it into the store and
// metrics. Caller holds m.mu.
func (m *Manager) setStateLocked(state model.ConnectionState) {
	m.state = state
	m.store.SetState(state)
	metrics.ConnectionState.Set(float64(state))
}

// closeCode extracts the close code from a connection error. Anything
// that is not an explicit close frame counts as abnormal.
func closeCode(err error) int {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return websocket.CloseAbnormalClosure
}
