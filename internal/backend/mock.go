package backend

import (
	"sync"
	"time"

	"github.com/llehouerou/tempest/internal/queue"
	"github.com/llehouerou/tempest/internal/streammeta"
)

const mockEventBufferSize = 64

// Mock is a test double for a playback backend. It records control calls and
// lets tests emit events as if the engine produced them.
type Mock struct {
	mu sync.Mutex

	kind          Kind
	items         []queue.Item
	index         int
	position      time.Duration
	duration      time.Duration
	playing       bool
	playWhenReady bool
	shuffle       bool
	shuffleOrder  []int
	shuffleSeed   int64
	repeat        RepeatMode
	sessionID     int
	released      bool

	prepareErr  error
	setQueueErr error

	prepareCalls  int
	playCalls     int
	pauseCalls    int
	stopCalls     int
	seekCalls     []time.Duration
	replacedItems map[int]queue.Item

	events chan Event
}

// NewMock creates a mock backend of the given kind.
func NewMock(kind Kind) *Mock {
	return &Mock{
		kind:          kind,
		index:         0,
		replacedItems: make(map[int]queue.Item),
		events:        make(chan Event, mockEventBufferSize),
	}
}

func (m *Mock) Kind() Kind {
	return m.kind
}

func (m *Mock) SetQueue(items []queue.Item, startIndex int, startPosition time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	if m.setQueueErr != nil {
		return m.setQueueErr
	}
	m.items = queue.CloneItems(items)
	m.index = startIndex
	m.position = startPosition
	return nil
}

func (m *Mock) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.prepareCalls++
	return m.prepareErr
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.playCalls++
	m.playing = true
	m.playWhenReady = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.pauseCalls++
	m.playing = false
	m.playWhenReady = false
	return nil
}

func (m *Mock) SeekTo(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.seekCalls = append(m.seekCalls, position)
	m.position = position
	return nil
}

func (m *Mock) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Mock) Item(index int) (queue.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.items) {
		return queue.Item{}, ErrIndexOutOfRange
	}
	return m.items[index].Clone(), nil
}

func (m *Mock) Items() []queue.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return queue.CloneItems(m.items)
}

// HasNext mirrors an engine's next-item query: repeat-one and repeat-all
// always have a next, the installed shuffle order decides under shuffle,
// position decides otherwise. Under shuffle with no installed order the
// mock reports no next, so an ended state reads as queue exhaustion.
func (m *Mock) HasNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.items)
	if n == 0 {
		return false
	}
	if m.repeat != RepeatOff {
		return true
	}
	if m.shuffle {
		if len(m.shuffleOrder) == n {
			for i, v := range m.shuffleOrder {
				if v == m.index {
					return i < n-1
				}
			}
		}
		return false
	}
	return m.index < n-1
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) PlayWhenReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playWhenReady
}

func (m *Mock) SetPlayWhenReady(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playWhenReady = v
}

func (m *Mock) Shuffle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shuffle
}

func (m *Mock) SetShuffle(enabled bool) {
	m.mu.Lock()
	changed := m.shuffle != enabled
	m.shuffle = enabled
	m.mu.Unlock()
	if changed {
		m.Emit(ShuffleChanged{Enabled: enabled})
	}
}

func (m *Mock) SetShuffleOrder(order []int, seed int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.shuffleOrder = append([]int(nil), order...)
	m.shuffleSeed = seed
	return nil
}

func (m *Mock) RepeatMode() RepeatMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repeat
}

func (m *Mock) SetRepeatMode(mode RepeatMode) {
	m.mu.Lock()
	changed := m.repeat != mode
	m.repeat = mode
	m.mu.Unlock()
	if changed {
		m.Emit(RepeatChanged{Mode: mode})
	}
}

func (m *Mock) ReplaceItem(index int, item queue.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	if index < 0 || index >= len(m.items) {
		return ErrIndexOutOfRange
	}
	m.items[index] = item.Clone()
	m.replacedItems[index] = item.Clone()
	return nil
}

func (m *Mock) AudioSessionID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.playing = false
}

func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
	m.playing = false
}

// Test helpers

// Emit delivers an event to the registered listener (non-blocking).
func (m *Mock) Emit(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

func (m *Mock) SetPlaying(v bool)              { m.mu.Lock(); m.playing = v; m.mu.Unlock() }
func (m *Mock) SetPosition(d time.Duration)    { m.mu.Lock(); m.position = d; m.mu.Unlock() }
func (m *Mock) SetDuration(d time.Duration)    { m.mu.Lock(); m.duration = d; m.mu.Unlock() }
func (m *Mock) SetCurrentIndex(i int)          { m.mu.Lock(); m.index = i; m.mu.Unlock() }
func (m *Mock) SetAudioSessionID(id int)       { m.mu.Lock(); m.sessionID = id; m.mu.Unlock() }
func (m *Mock) SetPrepareError(err error)      { m.mu.Lock(); m.prepareErr = err; m.mu.Unlock() }
func (m *Mock) SetSetQueueError(err error)     { m.mu.Lock(); m.setQueueErr = err; m.mu.Unlock() }
func (m *Mock) SetShuffleSilently(v bool)      { m.mu.Lock(); m.shuffle = v; m.mu.Unlock() }
func (m *Mock) SetRepeatSilently(r RepeatMode) { m.mu.Lock(); m.repeat = r; m.mu.Unlock() }

func (m *Mock) PrepareCalls() int { m.mu.Lock(); defer m.mu.Unlock(); return m.prepareCalls }
func (m *Mock) StopCalls() int    { m.mu.Lock(); defer m.mu.Unlock(); return m.stopCalls }
func (m *Mock) IsReleased() bool  { m.mu.Lock(); defer m.mu.Unlock(); return m.released }

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// ReplacedItem returns the last item replaced at index, if any.
func (m *Mock) ReplacedItem(index int) (queue.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.replacedItems[index]
	return it, ok
}

// ReplaceCount returns how many indices have seen a replacement.
func (m *Mock) ReplaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replacedItems)
}

// ShuffleOrder returns the last installed shuffle order and seed.
func (m *Mock) ShuffleOrder() ([]int, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.shuffleOrder...), m.shuffleSeed
}

// EmitStreamMetadata emits decoder metadata frames.
func (m *Mock) EmitStreamMetadata(frames ...streammeta.Frame) {
	m.Emit(StreamMetadata{Frames: frames})
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
