package session

import (
	"context"
	"errors"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
	"github.com/llehouerou/tempest/internal/streammeta"
)

// ErrUnknownCommand is returned for an unrecognized session command id.
var ErrUnknownCommand = errors.New("unknown session command")

// ErrNoBackend is returned when a command arrives before any backend is
// registered.
var ErrNoBackend = errors.New("no active backend")

// Service is the session surface consumed by adapters (MPRIS, CLI).
type Service interface {
	Play() error
	Pause() error
	SeekTo(position time.Duration) error
	SetQueue(items []queue.Item, startIndex int, startPosition time.Duration) error
	AddItems(items []queue.Item) error
	ClearQueue() error
	Command(id string) error
	Bind(action string, listener ControlsListener) bool
	Status() Status
	Close() error
}

// Status is a consistent snapshot of session state, read on the control
// loop.
type Status struct {
	Backend   backend.Kind
	Item      queue.Item
	Index     int
	ItemCount int
	Position  time.Duration
	Duration  time.Duration
	IsPlaying bool
	Shuffle   bool
	Repeat    backend.RepeatMode
}

// Resolver recomputes an item's play URI for the current network. Used at
// restore time and on transport changes.
type Resolver interface {
	Resolve(item queue.Item) (queue.Item, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(item queue.Item) (queue.Item, error)

func (f ResolverFunc) Resolve(item queue.Item) (queue.Item, error) {
	return f(item)
}

// nopResolver returns items unchanged.
var nopResolver = ResolverFunc(func(item queue.Item) (queue.Item, error) {
	return item, nil
})

// MetaProber fetches stream metadata out of band. Satisfied by
// streammeta.Prober.
type MetaProber interface {
	Probe(ctx context.Context, streamURL string) (streammeta.Meta, error)
}
