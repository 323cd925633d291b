package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/flow-rig/internal/gpio"
	"github.com/sweeney/flow-rig/internal/logic"
)

func TestDefaultMatchesOriginalRig(t *testing.T) {
	cfg := Default()

	if got := cfg.GPIOPins(); got != gpio.DefaultPins() {
		t.Errorf("pins: got %+v, want defaults", got)
	}
	if cfg.Debounce() != 500*time.Millisecond {
		t.Errorf("debounce: got %v, want 500ms", cfg.Debounce())
	}
	if cfg.DebounceMode() != logic.DebounceShared {
		t.Errorf("debounce mode: got %s, want shared", cfg.DebounceMode())
	}
	if *cfg.Rig.SplitCycles != 10 {
		t.Errorf("split cycles: got %d, want 10", *cfg.Rig.SplitCycles)
	}
	if cfg.SplitPause() != 2*time.Second {
		t.Errorf("split pause: got %v, want 2s", cfg.SplitPause())
	}
	if cfg.DisplayAddr() != 0x3F {
		t.Errorf("display addr: got %#x, want 0x3F", cfg.DisplayAddr())
	}

	reqs := cfg.Requests()
	if len(reqs) != 4 {
		t.Fatalf("requests: got %d entries, want 4", len(reqs))
	}
	if r := reqs[logic.Button1s]; r.Mode != logic.ModeSplit || r.Seconds != 1 {
		t.Errorf("1s button: got %+v, want 1s split", r)
	}
	if r := reqs[logic.Button100s]; r.Mode != logic.ModeFull || r.Seconds != 100 {
		t.Errorf("100s button: got %+v, want 100s full", r)
	}
}

func TestValidateDefaultPasses(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
rig:
  pins:
    valve: 17
  debounce_ms: 250
  debounce_mode: per-button
  split_cycles: 5
  split_pause_ms: 1000
  buttons:
    - button: 1s
      mode: full
      seconds: 2
  display:
    i2c_addr: 0x27
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Rig.Pins.Valve != 17 {
		t.Errorf("valve pin: got %d, want 17", cfg.Rig.Pins.Valve)
	}
	// Unset pins keep their defaults.
	if cfg.Rig.Pins.Flow != gpio.DefaultPinFlow {
		t.Errorf("flow pin: got %d, want default %d", cfg.Rig.Pins.Flow, gpio.DefaultPinFlow)
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("debounce: got %v, want 250ms", cfg.Debounce())
	}
	if cfg.DebounceMode() != logic.DebouncePerButton {
		t.Errorf("debounce mode: got %s, want per-button", cfg.DebounceMode())
	}
	if *cfg.Rig.SplitCycles != 5 {
		t.Errorf("split cycles: got %d, want 5", *cfg.Rig.SplitCycles)
	}
	if cfg.SplitPause() != time.Second {
		t.Errorf("split pause: got %v, want 1s", cfg.SplitPause())
	}
	if cfg.DisplayAddr() != 0x27 {
		t.Errorf("display addr: got %#x, want 0x27", cfg.DisplayAddr())
	}

	reqs := cfg.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests: got %d entries, want 1", len(reqs))
	}
	if r := reqs[logic.Button1s]; r.Mode != logic.ModeFull || r.Seconds != 2 {
		t.Errorf("1s button: got %+v, want 2s full", r)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Debounce() != 500*time.Millisecond {
		t.Errorf("debounce: got %v, want 500ms", cfg.Debounce())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "duplicate pins",
			mutate:  func(c *Config) { c.Rig.Pins.Valve = c.Rig.Pins.Flow },
			wantSub: "already assigned",
		},
		{
			name:    "bad debounce mode",
			mutate:  func(c *Config) { c.Rig.DebounceMode = "latched" },
			wantSub: "debounce_mode",
		},
		{
			name:    "zero cycles",
			mutate:  func(c *Config) { *c.Rig.SplitCycles = 0 },
			wantSub: "split_cycles",
		},
		{
			name:    "negative pause",
			mutate:  func(c *Config) { *c.Rig.SplitPauseMs = -1 },
			wantSub: "split_pause_ms",
		},
		{
			name:    "unknown button",
			mutate:  func(c *Config) { c.Rig.Buttons[0].Button = "5s" },
			wantSub: "unknown button",
		},
		{
			name: "duplicate button",
			mutate: func(c *Config) {
				c.Rig.Buttons[1].Button = c.Rig.Buttons[0].Button
			},
			wantSub: "mapped twice",
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Rig.Buttons[0].Mode = "burst" },
			wantSub: "mode",
		},
		{
			name:    "negative seconds",
			mutate:  func(c *Config) { c.Rig.Buttons[0].Seconds = -3 },
			wantSub: "negative seconds",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(&cfg)
			err := Validate(&cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), c.wantSub) {
				t.Errorf("error %q does not mention %q", err, c.wantSub)
			}
		})
	}
}

func TestZeroSecondsIsValid(t *testing.T) {
	// A zero-second window opens and immediately closes the valve; the
	// config layer must not reject it.
	cfg := Default()
	cfg.Rig.Buttons[0].Seconds = 0
	if err := Validate(&cfg); err != nil {
		t.Errorf("zero seconds rejected: %v", err)
	}
}
