package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/flow-rig/internal/counter"
	"github.com/sweeney/flow-rig/internal/display"
	"github.com/sweeney/flow-rig/internal/gpio"
	"github.com/sweeney/flow-rig/internal/logic"
	"github.com/sweeney/flow-rig/internal/mqtt"
	"github.com/sweeney/flow-rig/internal/valve"
)

// stepClock advances on every call so busy-waits complete instantly.
func stepClock(start time.Time, step time.Duration) logic.Clock {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// flowValve simulates the rig's plumbing: opening the valve lets fluid
// through, which makes the flow sensor fire edges into the pulse counter.
type flowValve struct {
	ctrl            *valve.Controller
	src             *gpio.FakePulseSource
	pulsesPerWindow int
}

func (v *flowValve) Open() {
	v.ctrl.Open()
	v.src.Fire(v.pulsesPerWindow)
}

func (v *flowValve) Close() {
	v.ctrl.Close()
}

// rig wires the real counter, valve controller, scanner and engine over
// fakes, the way cmd/flow-rig assembles the production pieces.
type rig struct {
	pulses  counter.PulseCounter
	drv     *gpio.FakeValve
	ctrl    *valve.Controller
	src     *gpio.FakePulseSource
	disp    *display.Fake
	pub     *mqtt.FakePublisher
	scanner *logic.Scanner
	engine  *logic.Engine
	clock   logic.Clock
}

func newRig(t *testing.T, pulsesPerWindow int) *rig {
	t.Helper()
	r := &rig{
		drv:  gpio.NewFakeValve(nil),
		disp: display.NewFake(),
		pub:  mqtt.NewFakePublisher(),
	}
	r.ctrl = valve.New(r.drv)
	r.src = gpio.NewFakePulseSource(r.pulses.Increment)
	r.clock = stepClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 100*time.Millisecond)

	fv := &flowValve{ctrl: r.ctrl, src: r.src, pulsesPerWindow: pulsesPerWindow}
	logf := func(string, ...any) {}
	r.scanner = logic.NewScanner(logic.DefaultDebounce, logic.DebounceShared, logic.DefaultRequests())
	r.engine = logic.NewEngine(fv, &r.pulses, r.disp, r.clock, logf, logic.SplitCycles, logic.SplitPause)
	return r
}

// scan runs one control-loop iteration: scan the sample, run any accepted
// measurement to completion, publish the result.
func (r *rig) scan(t *testing.T, sample gpio.Pressed) {
	t.Helper()
	requests := r.scanner.Scan(logic.Input{
		OneSec:     sample.OneSec,
		ThreeSec:   sample.ThreeSec,
		TenSec:     sample.TenSec,
		HundredSec: sample.HundredSec,
		Time:       r.clock(),
	})
	for _, req := range requests {
		total := r.engine.Run(req)
		finished := r.clock()
		r.scanner.Rearm(req.Button, finished)
		err := r.pub.PublishMeasurement(mqtt.Measurement{
			Timestamp: finished,
			Button:    req.Button,
			Mode:      req.Mode,
			Seconds:   req.Seconds,
			Pulses:    total,
		})
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
}

func TestIntegrationFullMeasurement(t *testing.T) {
	r := newRig(t, 250)

	r.scan(t, gpio.Pressed{})
	r.scan(t, gpio.Pressed{TenSec: true})
	r.scan(t, gpio.Pressed{})

	if len(r.pub.Measurements) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(r.pub.Measurements))
	}
	m := r.pub.Measurements[0]
	if m.Button != logic.Button10s || m.Mode != logic.ModeFull || m.Pulses != 250 {
		t.Errorf("measurement: got %+v", m)
	}

	// Valve: fail-safe close at construction, then one open/close pair.
	want := []bool{false, true, false}
	if len(r.drv.Transitions) != len(want) {
		t.Fatalf("valve transitions: got %+v", r.drv.Transitions)
	}
	for i, w := range want {
		if r.drv.Transitions[i].Energized != w {
			t.Errorf("transition %d: got %v, want %v", i, r.drv.Transitions[i].Energized, w)
		}
	}

	if r.disp.Lines[0] != "Pulses          " || r.disp.Lines[1] != "250             " {
		t.Errorf("display: got %q / %q", r.disp.Lines[0], r.disp.Lines[1])
	}

	// The published payload is what the lab's dashboards consume.
	var parsed struct {
		Measurement struct {
			Pulses uint32 `json:"pulses"`
			Mode   string `json:"mode"`
		} `json:"measurement"`
	}
	if err := json.Unmarshal(r.pub.MeasurementPayloads[0], &parsed); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if parsed.Measurement.Pulses != 250 || parsed.Measurement.Mode != "full" {
		t.Errorf("payload: got %+v", parsed.Measurement)
	}
}

func TestIntegrationSplitAccumulatesAcrossCycles(t *testing.T) {
	r := newRig(t, 5)

	r.scan(t, gpio.Pressed{OneSec: true})

	if len(r.pub.Measurements) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(r.pub.Measurements))
	}
	m := r.pub.Measurements[0]
	if m.Mode != logic.ModeSplit || m.Seconds != 1 {
		t.Errorf("measurement: got %+v, want 1s split", m)
	}
	if want := uint32(logic.SplitCycles * 5); m.Pulses != want {
		t.Errorf("pulses: got %d, want %d accumulated over all cycles", m.Pulses, want)
	}

	// One open/close pair per cycle after the fail-safe close.
	if len(r.drv.Transitions) != 1+2*logic.SplitCycles {
		t.Fatalf("valve transitions: got %d, want %d", len(r.drv.Transitions), 1+2*logic.SplitCycles)
	}
}

func TestIntegrationBackToBackRunsAreIndependent(t *testing.T) {
	r := newRig(t, 40)

	r.scan(t, gpio.Pressed{TenSec: true})
	// The clock is re-armed to the post-run time, so the second press has
	// to wait out a fresh debounce window before it is accepted.
	for i := 0; i < 6; i++ {
		r.scan(t, gpio.Pressed{})
	}
	r.scan(t, gpio.Pressed{TenSec: true})

	if len(r.pub.Measurements) != 2 {
		t.Fatalf("expected 2 measurements, got %d", len(r.pub.Measurements))
	}
	for i, m := range r.pub.Measurements {
		if m.Pulses != 40 {
			t.Errorf("run %d: pulses %d, want 40 (no leakage between runs)", i, m.Pulses)
		}
	}
}

func TestIntegrationDebounceSuppressesBounce(t *testing.T) {
	r := newRig(t, 3)

	// Remap everything to zero-second windows so simulated time between
	// scans stays inside the debounce window.
	requests := map[logic.Button]logic.Request{
		logic.Button10s: {Button: logic.Button10s, Mode: logic.ModeFull, Seconds: 0},
	}
	r.scanner = logic.NewScanner(logic.DefaultDebounce, logic.DebounceShared, requests)

	r.scan(t, gpio.Pressed{TenSec: true}) // accepted
	r.scan(t, gpio.Pressed{TenSec: true}) // bounce, one tick after the re-arm: rejected
	if len(r.pub.Measurements) != 1 {
		t.Errorf("expected bounce to be suppressed, got %d measurements", len(r.pub.Measurements))
	}
}

func TestIntegrationPulseEdgesReachCounter(t *testing.T) {
	// The edge path: FakePulseSource -> counter.Increment -> snapshot.
	var pulses counter.PulseCounter
	src := gpio.NewFakePulseSource(pulses.Increment)

	pulses.Reset()
	src.Fire(1000)
	if got := pulses.Snapshot(); got != 1000 {
		t.Errorf("snapshot: got %d, want 1000", got)
	}
}
