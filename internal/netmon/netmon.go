// Package netmon reports network transport changes so stream URIs can be
// remapped between local and remote server addresses.
package netmon

// TransportClass is a coarse classification of the active network.
type TransportClass int

const (
	TransportUnknown TransportClass = iota
	TransportWifi
	TransportCellular
	TransportOther
)

func (t TransportClass) String() string {
	switch t {
	case TransportWifi:
		return "wifi"
	case TransportCellular:
		return "cellular"
	case TransportOther:
		return "other"
	default:
		return "unknown"
	}
}

// Monitor delivers transport-change callbacks. Register may fire immediately
// with the current transport; callbacks arrive on an arbitrary goroutine.
type Monitor interface {
	Register(fn func(TransportClass)) error
	Unregister()
	Current() TransportClass
}

// Nop is a Monitor that never reports changes.
type Nop struct{}

func (Nop) Register(func(TransportClass)) error { return nil }
func (Nop) Unregister()                         {}
func (Nop) Current() TransportClass             { return TransportUnknown }

var _ Monitor = Nop{}
