// Package counter provides the pulse counter shared between the GPIO edge
// callback and the measurement engine.
//
// The flow sensor emits one falling edge per fixed volume of fluid. The edge
// callback runs on the GPIO event goroutine and may interleave with the main
// loop at any point, so every access goes through sync/atomic — a plain read
// could observe a torn value on 32-bit boards.
package counter

import "sync/atomic"

// PulseCounter counts qualifying sensor edges. The zero value is ready to use.
type PulseCounter struct {
	n atomic.Uint32
}

// Increment adds one pulse. Called from the edge callback.
// The counter wraps at the uint32 maximum; wraparound is not guarded.
func (c *PulseCounter) Increment() {
	c.n.Add(1)
}

// Reset sets the count to zero. Called at the start of each measurement.
func (c *PulseCounter) Reset() {
	c.n.Store(0)
}

// Snapshot returns the current count as a single atomic load.
func (c *PulseCounter) Snapshot() uint32 {
	return c.n.Load()
}
