package equalizer

import "sync"

// Mock is a test equalizer recording attach and band calls.
type Mock struct {
	mu sync.Mutex

	bands    int
	attempts int
	attached []int
	enabled  bool
	levels   map[int]int
	released bool

	AttachErr  error
	attachGate chan struct{}
}

// NewMock creates a mock with the given band count.
func NewMock(bands int) *Mock {
	return &Mock{
		bands:  bands,
		levels: make(map[int]int),
	}
}

func (m *Mock) Attach(sessionID int) error {
	m.mu.Lock()
	m.attempts++
	gate := m.attachGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AttachErr != nil {
		return m.AttachErr
	}
	m.attached = append(m.attached, sessionID)
	return nil
}

func (m *Mock) SetEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.attached) == 0 {
		return ErrNotAttached
	}
	m.enabled = enabled
	return nil
}

func (m *Mock) BandCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bands
}

func (m *Mock) SetBandLevel(band, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.attached) == 0 {
		return ErrNotAttached
	}
	if band < 0 || band >= m.bands {
		return ErrNotAttached
	}
	m.levels[band] = level
	return nil
}

func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
}

// Test helpers

// BlockAttach makes Attach wait on the returned gate until it is closed.
func (m *Mock) BlockAttach() chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachGate = make(chan struct{})
	return m.attachGate
}

// AttachAttempts counts Attach calls including failed ones.
func (m *Mock) AttachAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *Mock) AttachCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.attached...)
}

func (m *Mock) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *Mock) Level(band int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[band]
}

func (m *Mock) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

var _ Interface = (*Mock)(nil)
