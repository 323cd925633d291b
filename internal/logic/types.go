// Package logic contains the pure control core of the rig: the debounced
// button scanner and the measurement engine. This package has NO hardware
// dependencies (no GPIO, I2C, MQTT, or time.Sleep). Time is always
// injected, either as time.Time values or as a Clock.
package logic

import "time"

// Clock returns the current time. Production wires time.Now; tests inject
// step clocks. The engine's busy-waits poll it in a tight loop.
type Clock func() time.Time

// Logf writes one line-oriented log message per notable event.
type Logf func(format string, args ...any)

// Button identifies one of the four measurement buttons.
type Button string

const (
	Button1s   Button = "1s"
	Button3s   Button = "3s"
	Button10s  Button = "10s"
	Button100s Button = "100s"
)

// Buttons lists all buttons in scan order. The scanner checks them in this
// order every iteration; with a shared debounce clock the order decides
// which of two simultaneous presses wins.
var Buttons = []Button{Button1s, Button3s, Button10s, Button100s}

// Mode selects the measurement shape.
type Mode string

const (
	// ModeFull holds the valve open for one continuous window.
	ModeFull Mode = "full"
	// ModeSplit runs SplitCycles short windows separated by SplitPause,
	// accumulating pulses across all of them. The valve never stays open
	// longer than the per-cycle duration at a stretch.
	ModeSplit Mode = "split"
)

// Fixed rig constants.
const (
	// DefaultDebounce is the shared debounce window for button presses.
	DefaultDebounce = 500 * time.Millisecond

	// SplitCycles is the number of open/close cycles in split mode.
	SplitCycles = 10

	// SplitPause is the closed-valve pause between split cycles, applied
	// after every cycle including the last.
	SplitPause = 2000 * time.Millisecond
)

// DebounceMode selects how the debounce clock is kept.
type DebounceMode string

const (
	// DebounceShared keeps one clock for all four buttons: a press on one
	// button suppresses the others' window too.
	DebounceShared DebounceMode = "shared"
	// DebouncePerButton keeps an independent clock per button.
	DebouncePerButton DebounceMode = "per-button"
)

// Request asks the engine for one measurement.
type Request struct {
	Button  Button
	Mode    Mode
	Seconds int
}

// Duration returns the window (full) or per-cycle (split) duration.
func (r Request) Duration() time.Duration {
	return time.Duration(r.Seconds) * time.Second
}

// DefaultRequests is the stock button-to-measurement mapping: the short
// buttons run split windows, the long ones a single full window.
func DefaultRequests() map[Button]Request {
	return map[Button]Request{
		Button1s:   {Button: Button1s, Mode: ModeSplit, Seconds: 1},
		Button3s:   {Button: Button3s, Mode: ModeSplit, Seconds: 3},
		Button10s:  {Button: Button10s, Mode: ModeFull, Seconds: 10},
		Button100s: {Button: Button100s, Mode: ModeFull, Seconds: 100},
	}
}

// Input represents a single scan of logical button states.
type Input struct {
	OneSec     bool // true = pressed (already inverted from raw GPIO)
	ThreeSec   bool
	TenSec     bool
	HundredSec bool
	Time       time.Time
}

// pressed returns the state of one button in the scan.
func (in Input) pressed(b Button) bool {
	switch b {
	case Button1s:
		return in.OneSec
	case Button3s:
		return in.ThreeSec
	case Button10s:
		return in.TenSec
	case Button100s:
		return in.HundredSec
	}
	return false
}
