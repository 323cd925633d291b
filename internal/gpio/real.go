//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealRig owns every GPIO line of the rig: four button inputs, the valve
// output, and the flow sensor input with its falling-edge event stream.
// It implements ButtonReader, ValveDriver and PulseSource.
type RealRig struct {
	chip *gpiocdev.Chip

	btn1s   *gpiocdev.Line
	btn3s   *gpiocdev.Line
	btn10s  *gpiocdev.Line
	btn100s *gpiocdev.Line
	valve   *gpiocdev.Line
	flow    *gpiocdev.Line
}

// NewRealRig requests all rig lines on gpiochip0. onPulse is invoked once per
// falling edge on the flow sensor line, from the event goroutine. The valve
// line is driven to its de-energized (closed) level as part of the request,
// so the rig boots with flow blocked.
func NewRealRig(pins Pins, onPulse func()) (*RealRig, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealRig{chip: chip}

	requestButton := func(pin int, name string) (*gpiocdev.Line, error) {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		return line, nil
	}

	if r.btn1s, err = requestButton(pins.Button1s, "button-1s"); err != nil {
		r.Close()
		return nil, err
	}
	if r.btn3s, err = requestButton(pins.Button3s, "button-3s"); err != nil {
		r.Close()
		return nil, err
	}
	if r.btn10s, err = requestButton(pins.Button10s, "button-10s"); err != nil {
		r.Close()
		return nil, err
	}
	if r.btn100s, err = requestButton(pins.Button100s, "button-100s"); err != nil {
		r.Close()
		return nil, err
	}

	// The solenoid is wired active-low: raw 0 energizes the coil and allows
	// flow, raw 1 blocks it. Request with initial value 1 = closed.
	r.valve, err = chip.RequestLine(pins.Valve, gpiocdev.AsOutput(1))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request valve pin %d: %w", pins.Valve, err)
	}

	r.flow, err = chip.RequestLine(pins.Flow,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { onPulse() }))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request flow pin %d: %w", pins.Flow, err)
	}

	return r, nil
}

// Read returns the logical states of the four buttons.
// Inverts raw GPIO: lines are pulled up, so raw 0 = pressed.
func (r *RealRig) Read() (Pressed, error) {
	var p Pressed

	read := func(line *gpiocdev.Line, name string) (bool, error) {
		raw, err := line.Value()
		if err != nil {
			return false, fmt.Errorf("read %s: %w", name, err)
		}
		return raw == 0, nil
	}

	var err error
	if p.OneSec, err = read(r.btn1s, "button-1s"); err != nil {
		return Pressed{}, err
	}
	if p.ThreeSec, err = read(r.btn3s, "button-3s"); err != nil {
		return Pressed{}, err
	}
	if p.TenSec, err = read(r.btn10s, "button-10s"); err != nil {
		return Pressed{}, err
	}
	if p.HundredSec, err = read(r.btn100s, "button-100s"); err != nil {
		return Pressed{}, err
	}

	return p, nil
}

// Set drives the valve line. energized = true allows flow (raw 0).
func (r *RealRig) Set(energized bool) error {
	raw := 1
	if energized {
		raw = 0
	}
	if err := r.valve.SetValue(raw); err != nil {
		return fmt.Errorf("set valve: %w", err)
	}
	return nil
}

// Close de-energizes the valve and releases all lines. The valve is forced
// to its closed level before release so flow stays blocked after shutdown.
func (r *RealRig) Close() error {
	var errs []error

	if r.valve != nil {
		if err := r.valve.SetValue(1); err != nil {
			errs = append(errs, fmt.Errorf("close valve output: %w", err))
		}
	}

	for _, line := range []*gpiocdev.Line{r.flow, r.btn1s, r.btn3s, r.btn10s, r.btn100s, r.valve} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
