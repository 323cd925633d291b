package config

import (
	"time"

	"github.com/sweeney/flow-rig/internal/gpio"
	"github.com/sweeney/flow-rig/internal/logic"
)

// Normalize fills every unset field with the rig's stock defaults.
// It runs before Validate, so validation sees a complete configuration.
func Normalize(cfg *Config) {
	r := &cfg.Rig

	defaults := gpio.DefaultPins()
	if r.Pins.Flow == 0 {
		r.Pins.Flow = defaults.Flow
	}
	if r.Pins.Valve == 0 {
		r.Pins.Valve = defaults.Valve
	}
	if r.Pins.Button1s == 0 {
		r.Pins.Button1s = defaults.Button1s
	}
	if r.Pins.Button3s == 0 {
		r.Pins.Button3s = defaults.Button3s
	}
	if r.Pins.Button10s == 0 {
		r.Pins.Button10s = defaults.Button10s
	}
	if r.Pins.Button100s == 0 {
		r.Pins.Button100s = defaults.Button100s
	}

	if r.DebounceMs == nil {
		ms := int(logic.DefaultDebounce / time.Millisecond)
		r.DebounceMs = &ms
	}
	if r.DebounceMode == "" {
		r.DebounceMode = string(logic.DebounceShared)
	}
	if r.SplitCycles == nil {
		n := logic.SplitCycles
		r.SplitCycles = &n
	}
	if r.SplitPauseMs == nil {
		ms := int(logic.SplitPause / time.Millisecond)
		r.SplitPauseMs = &ms
	}

	if len(r.Buttons) == 0 {
		for _, b := range logic.Buttons {
			req := logic.DefaultRequests()[b]
			r.Buttons = append(r.Buttons, ButtonConfig{
				Button:  string(req.Button),
				Mode:    string(req.Mode),
				Seconds: req.Seconds,
			})
		}
	}
}
