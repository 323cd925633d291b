package gpio

import (
	"errors"
	"time"
)

// FakeButtons is a test double that returns scripted button scans.
type FakeButtons struct {
	// Samples contains scripted scans to return.
	// Each call to Read() consumes the next sample.
	Samples []Pressed

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeButtons creates a FakeButtons with the given samples.
func NewFakeButtons(samples []Pressed) *FakeButtons {
	return &FakeButtons{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeButtons) Read() (Pressed, error) {
	if f.ReadError != nil {
		return Pressed{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Pressed{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeButtons) Reset() {
	f.index = 0
	f.Closed = false
}

// ValveTransition records one Set call on a FakeValve.
type ValveTransition struct {
	Energized bool
	At        time.Time
}

// FakeValve records valve line writes for test assertions.
type FakeValve struct {
	// Now, if set, timestamps each transition. Lets tests with an injected
	// clock assert how long the valve was held open.
	Now func() time.Time

	// Transitions contains every Set call in order.
	Transitions []ValveTransition

	// SetError, if set, will be returned by Set()
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeValve creates a FakeValve. now may be nil.
func NewFakeValve(now func() time.Time) *FakeValve {
	return &FakeValve{Now: now}
}

// Set records the transition.
func (f *FakeValve) Set(energized bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	tr := ValveTransition{Energized: energized}
	if f.Now != nil {
		tr.At = f.Now()
	}
	f.Transitions = append(f.Transitions, tr)
	return nil
}

// Close marks the driver as closed.
func (f *FakeValve) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent transition and true, or false if none.
func (f *FakeValve) Last() (ValveTransition, bool) {
	if len(f.Transitions) == 0 {
		return ValveTransition{}, false
	}
	return f.Transitions[len(f.Transitions)-1], true
}

// FakePulseSource invokes a registered handler on demand, standing in for
// the flow sensor's edge events.
type FakePulseSource struct {
	handler func()

	// Closed tracks if Close was called
	Closed bool
}

// NewFakePulseSource creates a FakePulseSource delivering to handler.
func NewFakePulseSource(handler func()) *FakePulseSource {
	return &FakePulseSource{handler: handler}
}

// Fire delivers n edges to the handler.
func (f *FakePulseSource) Fire(n int) {
	for i := 0; i < n; i++ {
		f.handler()
	}
}

// Close marks the source as closed.
func (f *FakePulseSource) Close() error {
	f.Closed = true
	return nil
}
