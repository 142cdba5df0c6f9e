//go:build !linux

package broadcast

// New returns a no-op emitter on non-Linux platforms.
func New() (Emitter, error) {
	return Nop{}, nil
}
