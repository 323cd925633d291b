package mqtt

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Measurements contains all measurement results that were published.
	Measurements []Measurement

	// MeasurementPayloads contains the JSON payloads for measurements.
	MeasurementPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishMeasurement.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishMeasurement records the measurement.
func (f *FakePublisher) PublishMeasurement(m Measurement) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Measurements = append(f.Measurements, m)

	payload, err := FormatMeasurementPayload(m)
	if err != nil {
		return err
	}
	f.MeasurementPayloads = append(f.MeasurementPayloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Measurements = nil
	f.MeasurementPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
