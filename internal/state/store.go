package state

import (
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

// Store is the persistence surface the session layer depends on.
type Store interface {
	SaveQueue(snap queue.Snapshot) error
	SavePlayhead(index int, position time.Duration) error
	Snapshot() ([]queue.Item, error)
	LastIndex() (int, error)
	LastPosition() (time.Duration, error)

	Modes() (shuffle bool, repeat backend.RepeatMode, err error)
	SaveModes(shuffle bool, repeat backend.RepeatMode) error

	SetLastPlayed(itemID string, at time.Time) error
	SetPaused(itemID string, at time.Time, position time.Duration) error
	SaveChronology(item queue.Item, playedAt time.Time) error

	EqualizerSettings(bands int) (enabled bool, levels []int, err error)
	SaveEqualizerSettings(enabled bool, levels []int) error

	Close() error
}

var _ Store = (*Manager)(nil)
