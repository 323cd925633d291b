// Package gpio provides pin I/O for the measurement rig with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fakes allow testing without hardware.
package gpio

// Pressed holds one scan of the four measurement buttons, already in logical
// form. The raw lines are pulled up: idle = HIGH, pressed = LOW.
type Pressed struct {
	OneSec     bool
	ThreeSec   bool
	TenSec     bool
	HundredSec bool
}

// Any reports whether any button in the scan is pressed.
func (p Pressed) Any() bool {
	return p.OneSec || p.ThreeSec || p.TenSec || p.HundredSec
}

// ButtonReader reads the logical states of the four buttons.
type ButtonReader interface {
	// Read returns the current scan. The raw GPIO values are inverted:
	// raw LOW = logical pressed.
	Read() (Pressed, error)

	// Close releases GPIO resources.
	Close() error
}

// ValveDriver sets the solenoid valve line. energized = true allows flow.
// The electrical encoding is active-low and lives in the implementation.
type ValveDriver interface {
	Set(energized bool) error
	Close() error
}

// PulseSource delivers falling-edge events from the flow sensor to a handler
// registered at construction. The handler runs on the event goroutine and
// must be safe to call concurrently with the main loop.
type PulseSource interface {
	Close() error
}

// Pins assigns BCM line numbers to the rig's hardware.
type Pins struct {
	Flow       int // flow sensor input, falling edge per pulse
	Valve      int // solenoid valve output
	Button1s   int
	Button3s   int
	Button10s  int
	Button100s int
}

// Default pin assignment for the lab rig wiring.
const (
	DefaultPinFlow       = 2
	DefaultPinValve      = 22
	DefaultPinButton1s   = 8
	DefaultPinButton3s   = 9
	DefaultPinButton10s  = 10
	DefaultPinButton100s = 11
)

// DefaultPins returns the lab rig wiring.
func DefaultPins() Pins {
	return Pins{
		Flow:       DefaultPinFlow,
		Valve:      DefaultPinValve,
		Button1s:   DefaultPinButton1s,
		Button3s:   DefaultPinButton3s,
		Button10s:  DefaultPinButton10s,
		Button100s: DefaultPinButton100s,
	}
}
