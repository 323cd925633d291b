package config

import (
	"fmt"

	"github.com/sweeney/flow-rig/internal/logic"
)

// Validate checks configuration correctness. It performs declarative
// validation only and MUST NOT mutate the configuration.
func Validate(cfg *Config) error {
	r := cfg.Rig

	// Pins must be distinct — two lines on one pin is a wiring mistake.
	pins := map[int]string{}
	for name, pin := range map[string]int{
		"flow":        r.Pins.Flow,
		"valve":       r.Pins.Valve,
		"button_1s":   r.Pins.Button1s,
		"button_3s":   r.Pins.Button3s,
		"button_10s":  r.Pins.Button10s,
		"button_100s": r.Pins.Button100s,
	} {
		if pin < 0 {
			return fmt.Errorf("pin %s: negative line number %d", name, pin)
		}
		if other, dup := pins[pin]; dup {
			return fmt.Errorf("pin %s: line %d already assigned to %s", name, pin, other)
		}
		pins[pin] = name
	}

	switch logic.DebounceMode(r.DebounceMode) {
	case logic.DebounceShared, logic.DebouncePerButton:
	default:
		return fmt.Errorf("debounce_mode %q: must be %q or %q",
			r.DebounceMode, logic.DebounceShared, logic.DebouncePerButton)
	}

	if *r.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms: negative value %d", *r.DebounceMs)
	}
	if *r.SplitCycles <= 0 {
		return fmt.Errorf("split_cycles: must be positive, got %d", *r.SplitCycles)
	}
	if *r.SplitPauseMs < 0 {
		return fmt.Errorf("split_pause_ms: negative value %d", *r.SplitPauseMs)
	}

	known := map[string]bool{}
	for _, b := range logic.Buttons {
		known[string(b)] = true
	}
	seen := map[string]bool{}
	for _, b := range r.Buttons {
		if !known[b.Button] {
			return fmt.Errorf("buttons: unknown button %q", b.Button)
		}
		if seen[b.Button] {
			return fmt.Errorf("buttons: button %q mapped twice", b.Button)
		}
		seen[b.Button] = true

		switch logic.Mode(b.Mode) {
		case logic.ModeFull, logic.ModeSplit:
		default:
			return fmt.Errorf("buttons: button %q: mode %q must be %q or %q",
				b.Button, b.Mode, logic.ModeFull, logic.ModeSplit)
		}
		if b.Seconds < 0 {
			return fmt.Errorf("buttons: button %q: negative seconds %d", b.Button, b.Seconds)
		}
	}

	return nil
}
