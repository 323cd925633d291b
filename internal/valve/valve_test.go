package valve

import (
	"errors"
	"testing"

	"github.com/sweeney/flow-rig/internal/gpio"
)

func TestNewForcesClosed(t *testing.T) {
	drv := gpio.NewFakeValve(nil)
	c := New(drv)

	if c.State() != StateClosed {
		t.Errorf("state after New: got %s, want CLOSED", c.State())
	}
	last, ok := drv.Last()
	if !ok {
		t.Fatal("expected a driver write at construction")
	}
	if last.Energized {
		t.Error("construction should de-energize the valve")
	}
}

func TestOpenClose(t *testing.T) {
	drv := gpio.NewFakeValve(nil)
	c := New(drv)
	drv.Transitions = nil

	c.Open()
	if c.State() != StateOpen {
		t.Errorf("state after Open: got %s, want OPEN", c.State())
	}
	c.Close()
	if c.State() != StateClosed {
		t.Errorf("state after Close: got %s, want CLOSED", c.State())
	}

	if len(drv.Transitions) != 2 {
		t.Fatalf("expected 2 driver writes, got %d", len(drv.Transitions))
	}
	if !drv.Transitions[0].Energized || drv.Transitions[1].Energized {
		t.Errorf("driver writes: got %+v, want energize then de-energize", drv.Transitions)
	}
}

func TestDriverErrorIsSwallowed(t *testing.T) {
	// Write errors are fire-and-forget: the commanded state still advances.
	drv := gpio.NewFakeValve(nil)
	c := New(drv)
	drv.SetError = errors.New("line gone")

	c.Open()
	if c.State() != StateOpen {
		t.Errorf("state after failed Open: got %s, want OPEN", c.State())
	}
}
