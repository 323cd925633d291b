// Package config loads the rig's YAML configuration: pin assignment,
// debounce and split-window timings, and the button-to-measurement map.
// Missing values fall back to the rig's stock wiring and constants.
package config

import (
	"time"

	"github.com/sweeney/flow-rig/internal/display"
	"github.com/sweeney/flow-rig/internal/gpio"
	"github.com/sweeney/flow-rig/internal/logic"
)

type Config struct {
	Rig RigConfig `yaml:"rig"`
}

type RigConfig struct {
	Pins         PinsConfig     `yaml:"pins"`
	DebounceMs   *int           `yaml:"debounce_ms"`
	DebounceMode string         `yaml:"debounce_mode"`
	SplitCycles  *int           `yaml:"split_cycles"`
	SplitPauseMs *int           `yaml:"split_pause_ms"`
	Buttons      []ButtonConfig `yaml:"buttons"`
	Display      DisplayConfig  `yaml:"display"`
}

// PinsConfig assigns BCM line numbers. A zero value means "use the default";
// none of the rig's defaults sit on line 0.
type PinsConfig struct {
	Flow       int `yaml:"flow"`
	Valve      int `yaml:"valve"`
	Button1s   int `yaml:"button_1s"`
	Button3s   int `yaml:"button_3s"`
	Button10s  int `yaml:"button_10s"`
	Button100s int `yaml:"button_100s"`
}

// ButtonConfig remaps one button to a measurement.
type ButtonConfig struct {
	Button  string `yaml:"button"` // "1s", "3s", "10s", "100s"
	Mode    string `yaml:"mode"`   // "full" or "split"
	Seconds int    `yaml:"seconds"`
}

// DisplayConfig selects the LCD backpack.
type DisplayConfig struct {
	I2CBus  string  `yaml:"i2c_bus"`  // "" = first available bus
	I2CAddr *uint16 `yaml:"i2c_addr"` // default 0x3F
}

// Default returns the stock rig configuration.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

// Debounce returns the debounce window.
func (c Config) Debounce() time.Duration {
	return time.Duration(*c.Rig.DebounceMs) * time.Millisecond
}

// SplitPause returns the closed-valve pause between split cycles.
func (c Config) SplitPause() time.Duration {
	return time.Duration(*c.Rig.SplitPauseMs) * time.Millisecond
}

// DebounceMode returns the configured debounce clock mode.
func (c Config) DebounceMode() logic.DebounceMode {
	return logic.DebounceMode(c.Rig.DebounceMode)
}

// GPIOPins returns the pin assignment.
func (c Config) GPIOPins() gpio.Pins {
	return gpio.Pins{
		Flow:       c.Rig.Pins.Flow,
		Valve:      c.Rig.Pins.Valve,
		Button1s:   c.Rig.Pins.Button1s,
		Button3s:   c.Rig.Pins.Button3s,
		Button10s:  c.Rig.Pins.Button10s,
		Button100s: c.Rig.Pins.Button100s,
	}
}

// Requests returns the button-to-measurement map.
func (c Config) Requests() map[logic.Button]logic.Request {
	out := make(map[logic.Button]logic.Request, len(c.Rig.Buttons))
	for _, b := range c.Rig.Buttons {
		btn := logic.Button(b.Button)
		out[btn] = logic.Request{
			Button:  btn,
			Mode:    logic.Mode(b.Mode),
			Seconds: b.Seconds,
		}
	}
	return out
}

// DisplayAddr returns the LCD backpack address.
func (c Config) DisplayAddr() uint16 {
	if c.Rig.Display.I2CAddr == nil {
		return display.DefaultAddr
	}
	return *c.Rig.Display.I2CAddr
}
