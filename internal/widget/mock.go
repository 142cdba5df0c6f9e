package widget

import (
	"sync"
	"time"
)

// Mock records widget updates for tests.
type Mock struct {
	mu sync.Mutex

	full     []Update
	progress []time.Duration
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) FullUpdate(u Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.full = append(m.full, u)
}

func (m *Mock) ProgressUpdate(position, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, position)
}

func (m *Mock) FullUpdates() []Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Update(nil), m.full...)
}

func (m *Mock) LastFull() (Update, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.full) == 0 {
		return Update{}, false
	}
	return m.full[len(m.full)-1], true
}

func (m *Mock) ProgressCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.progress)
}

var _ Sink = (*Mock)(nil)
