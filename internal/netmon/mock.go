package netmon

import "sync"

// Mock is a Monitor driven by tests.
type Mock struct {
	mu sync.Mutex

	fn      func(TransportClass)
	current TransportClass

	RegisterErr error
}

func NewMock(current TransportClass) *Mock {
	return &Mock{current: current}
}

func (m *Mock) Register(fn func(TransportClass)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	m.fn = fn
	return nil
}

func (m *Mock) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = nil
}

func (m *Mock) Current() TransportClass {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Fire simulates a transport change, invoking the registered callback.
func (m *Mock) Fire(t TransportClass) {
	m.mu.Lock()
	m.current = t
	fn := m.fn
	m.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}

// Registered reports whether a callback is currently installed.
func (m *Mock) Registered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

var _ Monitor = (*Mock)(nil)
