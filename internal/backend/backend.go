// Package backend defines the uniform control surface implemented by every
// playback engine, local or remote. The session orchestrator drives exactly
// one backend at a time and drains its event stream.
package backend

import (
	"time"

	"github.com/llehouerou/tempest/internal/queue"
)

// Kind tags the closed set of backend variants.
type Kind int

const (
	Local Kind = iota
	Remote
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Local:
		return "Local"
	case Remote:
		return "Remote"
	default:
		return "Unknown"
	}
}

// Interface is the contract implemented identically by every engine.
//
// Operations on a released backend fail fast with ErrReleased (mutating
// operations) or are no-ops (queries return zero values). An out-of-range
// index fails with ErrIndexOutOfRange.
type Interface interface {
	Kind() Kind

	SetQueue(items []queue.Item, startIndex int, startPosition time.Duration) error
	Prepare() error
	Play() error
	Pause() error
	SeekTo(position time.Duration) error

	CurrentIndex() int
	Position() time.Duration
	Duration() time.Duration
	ItemCount() int
	Item(index int) (queue.Item, error)
	Items() []queue.Item
	// HasNext reports whether another item follows the current one in
	// playback order, honoring shuffle order and repeat mode.
	HasNext() bool

	IsPlaying() bool
	PlayWhenReady() bool
	SetPlayWhenReady(v bool)

	Shuffle() bool
	SetShuffle(enabled bool)
	SetShuffleOrder(order []int, seed int64) error
	RepeatMode() RepeatMode
	SetRepeatMode(mode RepeatMode)

	ReplaceItem(index int, item queue.Item) error

	AudioSessionID() int

	// Events returns the backend's asynchronous event stream. There is
	// exactly one registered listener: the session orchestrator.
	Events() <-chan Event

	// Stop halts decoding/transport but keeps queue, index and position so
	// the backend can be the target of a later transfer.
	Stop()
	// Release frees engine resources. The backend is unusable afterwards.
	Release()
}
