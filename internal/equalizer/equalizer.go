// Package equalizer abstracts the per-audio-session equalizer effect.
package equalizer

import "errors"

// ErrNotAttached is returned by band operations before Attach succeeds.
var ErrNotAttached = errors.New("equalizer not attached")

// Interface is a device equalizer bound to an audio session. Attach may be
// slow and is called off the control loop; everything else is cheap.
type Interface interface {
	// Attach binds the effect to an audio session ID.
	Attach(sessionID int) error
	// SetEnabled toggles the effect.
	SetEnabled(enabled bool) error
	// BandCount returns the number of adjustable bands.
	BandCount() int
	// SetBandLevel sets the gain for one band.
	SetBandLevel(band, level int) error
	// Release detaches the effect and frees its resources.
	Release()
}

// Nop is an equalizer that does nothing, for platforms without one.
type Nop struct{}

func (Nop) Attach(int) error            { return nil }
func (Nop) SetEnabled(bool) error       { return nil }
func (Nop) BandCount() int              { return 0 }
func (Nop) SetBandLevel(int, int) error { return nil }
func (Nop) Release()                    {}

var _ Interface = Nop{}
