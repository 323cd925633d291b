// Package status provides a thread-safe status tracker for the flow-rig
// daemon. It is read by the HTTP status page and embedded in MQTT system
// events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/flow-rig/internal/logic"
	"github.com/sweeney/flow-rig/internal/valve"
)

// RigState is what the rig is doing right now.
type RigState string

const (
	// StateReady means the rig is idle, scanning buttons.
	StateReady RigState = "READY"
	// StateMeasuring means a measurement is running; button presses are
	// lost until it completes.
	StateMeasuring RigState = "MEASURING"
)

// Result is one completed measurement.
type Result struct {
	Button   logic.Button
	Mode     logic.Mode
	Seconds  int
	Pulses   uint32
	Finished time.Time
}

// Counts tracks completed measurements per button since startup.
type Counts struct {
	OneSec     int
	ThreeSec   int
	TenSec     int
	HundredSec int
}

// inc bumps the count for a button.
func (c *Counts) inc(b logic.Button) {
	switch b {
	case logic.Button1s:
		c.OneSec++
	case logic.Button3s:
		c.ThreeSec++
	case logic.Button10s:
		c.TenSec++
	case logic.Button100s:
		c.HundredSec++
	}
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs       int64
	DebounceMs   int64
	DebounceMode string
	SplitCycles  int
	SplitPauseMs int64
	Broker       string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         RigState
	Valve         valve.State
	Last          *Result
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
// The rig starts ready with the valve closed.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     StateReady,
			Valve:     valve.StateClosed,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetState sets the rig state. Called around each measurement run.
func (t *Tracker) SetState(state RigState) {
	t.mu.Lock()
	t.snap.State = state
	t.mu.Unlock()
}

// SetValve sets the commanded valve position.
func (t *Tracker) SetValve(v valve.State) {
	t.mu.Lock()
	t.snap.Valve = v
	t.mu.Unlock()
}

// RecordResult stores a completed measurement and bumps its button's count.
func (t *Tracker) RecordResult(res Result) {
	t.mu.Lock()
	r := res
	t.snap.Last = &r
	t.snap.Counts.inc(res.Button)
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
