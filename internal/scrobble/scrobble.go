// Package scrobble reports plays to an external scrobbling service.
package scrobble

import (
	"time"

	"github.com/llehouerou/tempest/internal/queue"
)

// Scrobbler receives now-playing updates and completed plays. Implementations
// must tolerate being called from a background goroutine.
type Scrobbler interface {
	// NowPlaying reports the item that just became current.
	NowPlaying(item queue.Item, duration time.Duration) error
	// Scrobble submits a completed (or sufficiently played) item.
	Scrobble(item queue.Item, duration time.Duration, playedAt time.Time) error
}

// Nop is a Scrobbler that discards everything.
type Nop struct{}

func (Nop) NowPlaying(queue.Item, time.Duration) error          { return nil }
func (Nop) Scrobble(queue.Item, time.Duration, time.Time) error { return nil }

var _ Scrobbler = Nop{}
