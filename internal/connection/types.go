package connection

import (
	"errors"
	"time"

	"github.com/lexconnect/conversa/internal/model"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrMaxReconnect    = errors.New("max reconnect attempts exceeded")
)

// ProtocolError is an error frame carried by the server. It surfaces as
// the current error state; the connection stays open unless the server
// also closes it.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "server error: " + e.Message
}

// Inbound frame types.
const (
	FrameConnectionEstablished = "connection_established"
	FrameNewMessage            = "new_message"
	FrameTypingIndicator       = "typing_indicator"
	FrameReadReceipt           = "read_receipt"
	FrameError                 = "error"
)

// Outbound frame types.
const (
	FrameSendMessage = "send_message"
	FrameTyping      = "typing"
	FrameMarkRead    = "mark_read"
)

// InboundFrame is one JSON frame received from the server. Only the
// fields matching Type are populated.
type InboundFrame struct {
	Type       string         `json:"type"`
	Message    *model.Message `json:"message,omitempty"`
	UserType   string         `json:"user_type,omitempty"`
	IsTyping   *bool          `json:"is_typing,omitempty"`
	MessageIDs []string       `json:"message_ids,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// OutboundFrame is one JSON frame sent to the server.
type OutboundFrame struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	IsTyping *bool  `json:"is_typing,omitempty"`
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // Composed conversation endpoint
	ClientID         string        // Sent as X-Client-ID header on dial
	HandshakeTimeout time.Duration // Dial timeout
	PingTimeout      time.Duration // Max time without ping before considering connection stale
	PingInterval     time.Duration // Keepalive ping cadence
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Inbound frame buffer; frames arriving while it is full are dropped, not queued
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		PingTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}

// ManagerConfig configures the connection Manager.
type ManagerConfig struct {
	BaseURL        string          // REST base URL; WebSocket scheme derived from it
	Policy         ReconnectPolicy // Reconnect schedule
	TypingDebounce time.Duration   // Debounce window for typing:true signals
	Client         ClientConfig    // Per-connection tuning (URL/ClientID filled per dial)
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Policy:         DefaultReconnectPolicy(),
		TypingDebounce: 300 * time.Millisecond,
		Client:         DefaultClientConfig(),
	}
}
