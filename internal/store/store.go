// Package store holds the observable conversation state.
//
// The Store is the sole mutator of the message log. The connection
// manager appends and patches through it and never keeps its own copy;
// the rest of the application observes changes through Subscribe.
package store

import (
	"log/slog"
	"sync"

	"github.com/lexconnect/conversa/internal/model"
)

// EventKind discriminates Store events.
type EventKind int

const (
	EventMessage EventKind = iota
	EventTyping
	EventState
	EventError
)

// Event describes one observable state change.
type Event struct {
	Kind    EventKind
	Message *model.Message        // EventMessage
	Typing  bool                  // EventTyping
	State   model.ConnectionState // EventState
	Err     error                 // EventError; nil when the error cleared
}

// Snapshot is a point-in-time copy of the observable state.
type Snapshot struct {
	Messages     []model.Message
	RemoteTyping bool
	State        model.ConnectionState
	Err          error
}

// Store is the conversation state store.
type Store struct {
	logger *slog.Logger

	mu           sync.RWMutex
	messages     []model.Message
	index        map[string]int // message ID → position in messages
	remoteTyping bool
	state        model.ConnectionState
	err          error
	subs         []chan Event
}

// New creates an empty store in the Idle state.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		index:  make(map[string]int),
		state:  model.StateIdle,
	}
}

// Subscribe registers an observer. Events are delivered best-effort: a
// subscriber that falls behind drops events rather than blocking the
// frame dispatch path.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// publish fans an event out to subscribers. Caller must hold s.mu.
func (s *Store) publish(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("subscriber buffer full, dropping event", "kind", ev.Kind)
		}
	}
}

// Seed replaces the log with a history snapshot, deduplicating by ID.
// Used when the REST API hands over the initial conversation history.
func (s *Store) Seed(history []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = s.messages[:0]
	s.index = make(map[string]int, len(history))
	for _, msg := range history {
		if _, ok := s.index[msg.ID]; ok {
			continue
		}
		s.index[msg.ID] = len(s.messages)
		s.messages = append(s.messages, msg)
	}
}

// Append adds a message to the log in arrival order. If a message with
// the same ID already exists the read flags are patched in place instead;
// this is the defensive second check behind the deduplicator.
func (s *Store) Append(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[msg.ID]; ok {
		s.messages[pos].ReadByClient = s.messages[pos].ReadByClient || msg.ReadByClient
		s.messages[pos].ReadByLawyer = s.messages[pos].ReadByLawyer || msg.ReadByLawyer
		s.logger.Debug("duplicate message patched", "id", msg.ID)
		return
	}

	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)

	copied := msg
	s.publish(Event{Kind: EventMessage, Message: &copied})
}

// ApplyReadReceipt marks the listed messages read by the given role.
// Applying the same receipt twice is a no-op.
func (s *Store) ApplyReadReceipt(ids []string, role model.SenderRole) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		pos, ok := s.index[id]
		if !ok {
			s.logger.Debug("read receipt for unknown message", "id", id)
			continue
		}
		switch role {
		case model.RoleClient:
			s.messages[pos].ReadByClient = true
		case model.RoleLawyer:
			s.messages[pos].ReadByLawyer = true
		}
	}
}

// SetRemoteTyping updates the counterpart-typing flag.
func (s *Store) SetRemoteTyping(typing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remoteTyping == typing {
		return
	}
	s.remoteTyping = typing
	s.publish(Event{Kind: EventTyping, Typing: typing})
}

// SetState records a connection state transition.
func (s *Store) SetState(state model.ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == state {
		return
	}
	s.state = state
	s.publish(Event{Kind: EventState, State: state})
}

// SetError surfaces an error as the current error state.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
	s.publish(Event{Kind: EventError, Err: err})
}

// ClearError clears the current error state.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		return
	}
	s.err = nil
	s.publish(Event{Kind: EventError, Err: nil})
}

// Messages returns an ordered copy of the log.
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// State returns the current connection state.
func (s *Store) State() model.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the current error state, nil when healthy.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Current returns a point-in-time snapshot of the whole state.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		Messages:     msgs,
		RemoteTyping: s.remoteTyping,
		State:        s.state,
		Err:          s.err,
	}
}
