package state

import (
	"sync"
	"time"

	"github.com/llehouerou/tempest/internal/backend"
	"github.com/llehouerou/tempest/internal/queue"
)

// MemoryStore is an in-memory Store for tests. Errors can be injected per
// method group to exercise restore fallbacks.
type MemoryStore struct {
	mu sync.Mutex

	items         []queue.Item
	index         int
	position      time.Duration
	playWhenReady bool

	shuffle bool
	repeat  backend.RepeatMode

	lastPlayed map[string]time.Time
	paused     map[string]time.Time
	pausedPos  map[string]time.Duration
	chronology []PlayRecord

	eqEnabled bool
	eqLevels  []int

	SnapshotErr error
	IndexErr    error
	PositionErr error
	SaveErr     error

	saveQueueCalls int
	closed         bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lastPlayed: make(map[string]time.Time),
		paused:     make(map[string]time.Time),
		pausedPos:  make(map[string]time.Duration),
	}
}

func (s *MemoryStore) SaveQueue(snap queue.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.items = queue.CloneItems(snap.Items)
	s.index = snap.Index
	s.position = snap.Position
	s.playWhenReady = snap.PlayWhenReady
	s.saveQueueCalls++
	return nil
}

func (s *MemoryStore) SavePlayhead(index int, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.index = index
	s.position = position
	return nil
}

func (s *MemoryStore) Snapshot() ([]queue.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SnapshotErr != nil {
		return nil, s.SnapshotErr
	}
	return queue.CloneItems(s.items), nil
}

func (s *MemoryStore) LastIndex() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IndexErr != nil {
		return 0, s.IndexErr
	}
	return s.index, nil
}

func (s *MemoryStore) LastPosition() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PositionErr != nil {
		return 0, s.PositionErr
	}
	return s.position, nil
}

func (s *MemoryStore) Modes() (bool, backend.RepeatMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuffle, s.repeat, nil
}

func (s *MemoryStore) SaveModes(shuffle bool, repeat backend.RepeatMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = shuffle
	s.repeat = repeat
	return nil
}

func (s *MemoryStore) SetLastPlayed(itemID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPlayed[itemID] = at
	return nil
}

func (s *MemoryStore) SetPaused(itemID string, at time.Time, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused[itemID] = at
	s.pausedPos[itemID] = position
	return nil
}

func (s *MemoryStore) SaveChronology(item queue.Item, playedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chronology = append(s.chronology, PlayRecord{
		ItemID:   item.ID,
		Title:    item.Title,
		Artist:   item.Artist,
		Album:    item.Album,
		PlayedAt: playedAt,
	})
	return nil
}

func (s *MemoryStore) EqualizerSettings(bands int) (bool, []int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	levels := append([]int(nil), s.eqLevels...)
	if bands >= 0 {
		for len(levels) < bands {
			levels = append(levels, 0)
		}
		levels = levels[:bands]
	}
	return s.eqEnabled, levels, nil
}

func (s *MemoryStore) SaveEqualizerSettings(enabled bool, levels []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eqEnabled = enabled
	s.eqLevels = append([]int(nil), levels...)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Test helpers

// Seed installs a persisted queue without going through SaveQueue.
func (s *MemoryStore) Seed(items []queue.Item, index int, position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = queue.CloneItems(items)
	s.index = index
	s.position = position
}

// SeedModes installs persisted shuffle and repeat modes.
func (s *MemoryStore) SeedModes(shuffle bool, repeat backend.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = shuffle
	s.repeat = repeat
}

// SeedEqualizer installs persisted equalizer settings.
func (s *MemoryStore) SeedEqualizer(enabled bool, levels []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eqEnabled = enabled
	s.eqLevels = append([]int(nil), levels...)
}

func (s *MemoryStore) SaveQueueCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveQueueCalls
}

func (s *MemoryStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *MemoryStore) LastPlayedAt(itemID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastPlayed[itemID]
	return t, ok
}

func (s *MemoryStore) PausedAt(itemID string) (time.Time, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.paused[itemID]
	return t, s.pausedPos[itemID], ok
}

func (s *MemoryStore) Chronology() []PlayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PlayRecord(nil), s.chronology...)
}

var _ Store = (*MemoryStore)(nil)
