//go:build !linux

package gpio

import "errors"

// RealRig is not available on non-Linux platforms.
type RealRig struct{}

// NewRealRig returns an error on non-Linux platforms.
func NewRealRig(Pins, func()) (*RealRig, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealRig) Read() (Pressed, error) {
	return Pressed{}, errors.New("gpio: not supported")
}

// Set is not implemented on non-Linux platforms.
func (r *RealRig) Set(bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealRig) Close() error {
	return nil
}
