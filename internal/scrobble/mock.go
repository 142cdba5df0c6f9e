package scrobble

import (
	"sync"
	"time"

	"github.com/llehouerou/tempest/internal/queue"
)

// Play is one recorded scrobble submission.
type Play struct {
	Item     queue.Item
	Duration time.Duration
	PlayedAt time.Time
}

// Mock records scrobble calls for tests.
type Mock struct {
	mu sync.Mutex

	nowPlaying []Play
	scrobbles  []Play

	NowPlayingErr error
	ScrobbleErr   error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) NowPlaying(item queue.Item, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NowPlayingErr != nil {
		return m.NowPlayingErr
	}
	m.nowPlaying = append(m.nowPlaying, Play{Item: item.Clone(), Duration: duration})
	return nil
}

func (m *Mock) Scrobble(item queue.Item, duration time.Duration, playedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScrobbleErr != nil {
		return m.ScrobbleErr
	}
	m.scrobbles = append(m.scrobbles, Play{Item: item.Clone(), Duration: duration, PlayedAt: playedAt})
	return nil
}

func (m *Mock) NowPlayingCalls() []Play {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Play(nil), m.nowPlaying...)
}

func (m *Mock) Scrobbles() []Play {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Play(nil), m.scrobbles...)
}

var _ Scrobbler = (*Mock)(nil)
