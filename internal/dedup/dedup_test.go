package dedup

import "testing"

func TestSet_SeenMarkSeen(t *testing.T) {
	s := NewSet()

	if s.Seen("m1") {
		t.Error("fresh set should not contain m1")
	}

	s.MarkSeen("m1")
	if !s.Seen("m1") {
		t.Error("m1 should be seen after MarkSeen")
	}
	if s.Seen("m2") {
		t.Error("m2 should not be seen")
	}

	// Marking twice stays idempotent
	s.MarkSeen("m1")
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSet_Reset(t *testing.T) {
	s := NewSet()
	s.MarkSeen("m1")
	s.MarkSeen("m2")

	s.Reset()

	if s.Seen("m1") || s.Seen("m2") {
		t.Error("reset set should not contain previous IDs")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}

	// Usable after reset; same IDs are legitimate in a new conversation
	s.MarkSeen("m1")
	if !s.Seen("m1") {
		t.Error("m1 should be seen after re-marking")
	}
}
