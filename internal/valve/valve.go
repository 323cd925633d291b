// Package valve wraps the solenoid valve line as a binary actuator.
// The idle state is closed: flow is blocked until a measurement opens it.
package valve

import (
	"log"

	"github.com/sweeney/flow-rig/internal/gpio"
)

// State is the commanded valve position.
type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// Controller drives the valve. The physical actuator is not observed, so a
// driver error means the commanded and actual positions may disagree; the
// error is logged and the measurement carries on regardless.
type Controller struct {
	drv   gpio.ValveDriver
	state State
}

// New creates a Controller and forces the valve closed.
func New(drv gpio.ValveDriver) *Controller {
	c := &Controller{drv: drv, state: StateClosed}
	c.Close()
	return c
}

// Open allows flow.
func (c *Controller) Open() {
	c.state = StateOpen
	if err := c.drv.Set(true); err != nil {
		log.Printf("valve: open: %v", err)
	}
}

// Close blocks flow.
func (c *Controller) Close() {
	c.state = StateClosed
	if err := c.drv.Set(false); err != nil {
		log.Printf("valve: close: %v", err)
	}
}

// State returns the last commanded position.
func (c *Controller) State() State {
	return c.state
}
