package broadcast

import "sync"

// Mock records emitted signals for tests.
type Mock struct {
	mu      sync.Mutex
	signals []string
	closed  bool
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Emit(signal string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, signal)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) Signals() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.signals...)
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Emitter = (*Mock)(nil)
