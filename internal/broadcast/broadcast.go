// Package broadcast emits local change signals over the session D-Bus so
// companion surfaces (widgets, settings panels) can refresh.
package broadcast

// Signal names emitted on the session bus.
const (
	SignalEqualizerUpdated = "EqualizerUpdated"
	SignalQueueRestored    = "QueueRestored"
)

// Emitter publishes named signals. Emit must never block playback; failures
// are swallowed by implementations.
type Emitter interface {
	Emit(signal string)
	Close() error
}

// Nop discards all signals.
type Nop struct{}

func (Nop) Emit(string)  {}
func (Nop) Close() error { return nil }

var _ Emitter = Nop{}
