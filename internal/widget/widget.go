// Package widget defines the throttled now-playing surface updated by the
// session orchestrator.
package widget

import (
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

// Update is a full widget refresh.
type Update struct {
	Item              queue.Item
	Index             int
	IsPlaying         bool
	Shuffle           bool
	Repeat            backend.RepeatMode
	Position          time.Duration
	Duration          time.Duration
	NowPlayingChanged bool
}

// Sink receives widget updates. FullUpdate carries the complete surface and
// is sent only when something displayed actually changed; ProgressUpdate is
// the cheap once-per-tick playhead refresh.
type Sink interface {
	FullUpdate(u Update)
	ProgressUpdate(position, duration time.Duration)
}

// Nop is a Sink that discards everything.
type Nop struct{}

func (Nop) FullUpdate(Update)                           {}
func (Nop) ProgressUpdate(time.Duration, time.Duration) {}

var _ Sink = Nop{}
