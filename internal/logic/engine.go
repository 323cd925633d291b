package logic

import (
	"fmt"
	"strconv"
	"time"
)

// Valve is the binary actuator the engine drives.
type Valve interface {
	Open()
	Close()
}

// Counter is the pulse counter the engine reads.
type Counter interface {
	Reset()
	Snapshot() uint32
}

// Display renders a line of text on the rig's panel.
type Display interface {
	Write(text string, line int)
}

// Engine runs the two measurement shapes against the valve, counter and
// display. A measurement is blocking and non-preemptible: the timing loops
// busy-wait on the clock, nothing else is serviced, and there is no abort —
// once started a measurement always runs to completion.
type Engine struct {
	valve   Valve
	counter Counter
	display Display
	clock   Clock
	logf    Logf

	cycles int
	pause  time.Duration
}

// NewEngine creates an Engine. cycles and pause shape split mode; pass
// SplitCycles and SplitPause for the stock rig behavior.
func NewEngine(v Valve, c Counter, d Display, clock Clock, logf Logf, cycles int, pause time.Duration) *Engine {
	return &Engine{
		valve:   v,
		counter: c,
		display: d,
		clock:   clock,
		logf:    logf,
		cycles:  cycles,
		pause:   pause,
	}
}

// Run executes the request and returns the measured pulse total.
func (e *Engine) Run(req Request) uint32 {
	if req.Mode == ModeSplit {
		return e.runSplit(req.Seconds)
	}
	return e.runFull(req.Seconds)
}

// runFull holds the valve open for one continuous window of the requested
// duration. Pulses are counted from reset to the post-close snapshot.
func (e *Engine) runFull(seconds int) uint32 {
	e.counter.Reset()
	e.display.Write("Running", 0)
	e.display.Write(fmt.Sprintf("%d seconds", seconds), 1)
	e.logf("measurement start: full, %d seconds", seconds)

	start := e.clock()
	stop := start.Add(time.Duration(seconds) * time.Second)

	e.valve.Open()
	e.busyWait(start, stop, true)
	e.valve.Close()

	return e.report()
}

// runSplit runs e.cycles windows of the requested duration, valve closed for
// e.pause between them (and after the last). The counter is reset once up
// front, so pulses accumulate across the whole span — including any edges
// that arrive during the pauses.
func (e *Engine) runSplit(seconds int) uint32 {
	e.counter.Reset()
	e.display.Write(fmt.Sprintf("Running %d seconds", seconds), 0)
	e.logf("measurement start: split, %d cycles of %d seconds", e.cycles, seconds)

	for i := 1; i <= e.cycles; i++ {
		e.display.Write(fmt.Sprintf("Cycle: %d", i), 1)
		e.logf("cycle %d of %d", i, e.cycles)

		start := e.clock()
		e.valve.Open()
		e.busyWait(start, start.Add(time.Duration(seconds)*time.Second), false)
		e.valve.Close()

		pauseStart := e.clock()
		e.busyWait(pauseStart, pauseStart.Add(e.pause), false)
	}

	return e.report()
}

// busyWait polls the clock until stop is reached. No sleeping: the loop
// deliberately occupies the thread for the whole window, as the rig's timing
// has always worked. A stop at or before start returns immediately, so a
// zero-second window opens and closes the valve without hanging.
//
// With progress set, one log line is emitted on each whole-second boundary
// of elapsed time.
func (e *Engine) busyWait(start, stop time.Time, progress bool) {
	logged := 0
	for {
		now := e.clock()
		if !now.Before(stop) {
			return
		}
		if progress {
			if elapsed := int(now.Sub(start) / time.Second); elapsed > logged {
				logged = elapsed
				e.logf("measuring: %d seconds elapsed", elapsed)
			}
		}
	}
}

// report snapshots the counter and writes the result to log and display.
func (e *Engine) report() uint32 {
	pulses := e.counter.Snapshot()
	e.logf("pulses: %d", pulses)
	e.display.Write("Pulses", 0)
	e.display.Write(strconv.FormatUint(uint64(pulses), 10), 1)
	return pulses
}
