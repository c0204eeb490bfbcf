package model

// SenderRole identifies which party authored a message.
type SenderRole string

const (
	RoleClient SenderRole = "client"
	RoleLawyer SenderRole = "lawyer"
)

// Message is one entry in the conversation log.
//
// Identity is ID: two records with equal IDs are the same logical
// message, and a later read receipt patches the Read* flags in place
// rather than creating a new entry.
type Message struct {
	ID           string     `json:"id"`
	SenderID     int64      `json:"sender_id"`
	SenderRole   SenderRole `json:"sender_role"`
	Text         string     `json:"text"`
	Timestamp    string     `json:"timestamp"`
	ReadByClient bool       `json:"read_by_client"`
	ReadByLawyer bool       `json:"read_by_lawyer"`
}

// ConnectionState describes the transport connection lifecycle.
type ConnectionState int

const (
	StateIdle ConnectionState = iota
	StateConnecting
	StateOpen
	StateClosing
	StateClosed
)

// String returns the lowercase state name.
func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Identity is the (conversation, credential) pair a connection is bound to.
type Identity struct {
	ConversationID string
	Token          string
}

// Complete reports whether both fields are present.
func (id Identity) Complete() bool {
	return id.ConversationID != "" && id.Token != ""
}

// Equal reports whether two identities refer to the same conversation
// with the same credential.
func (id Identity) Equal(other Identity) bool {
	return id.ConversationID == other.ConversationID && id.Token == other.Token
}
