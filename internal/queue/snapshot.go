package queue

import "time"

// Snapshot is a durable picture of the queue: ordered items, current index,
// current position, and the play-when-ready flag.
type Snapshot struct {
	Items         []Item
	Index         int
	Position      time.Duration
	PlayWhenReady bool
}

// IsEmpty reports whether the snapshot holds no items.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Clamp forces the index into [0, len-1] and the position to be
// non-negative. An empty snapshot clamps to index 0.
func (s *Snapshot) Clamp() {
	if s.Index < 0 {
		s.Index = 0
	}
	if n := len(s.Items); n > 0 && s.Index > n-1 {
		s.Index = n - 1
	} else if n == 0 {
		s.Index = 0
	}
	if s.Position < 0 {
		s.Position = 0
	}
}
