// Package dedup implements the inbound message deduplicator.
//
// The server may replay frames across a reconnect window, so message IDs
// are tracked per conversation and consulted before a frame reaches the
// state store. IDs are only guaranteed unique within one conversation,
// so the set is reset on every identity change.
package dedup

import "sync"

// Set tracks message identifiers already applied to the log.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSet creates an empty deduplication set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Seen reports whether the ID has already been applied.
func (s *Set) Seen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

// MarkSeen records the ID as applied.
func (s *Set) MarkSeen(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = struct{}{}
}

// Reset clears the set. Called on conversation identity change.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = make(map[string]struct{})
}

// Len returns the number of tracked IDs.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
