// Package mqtt publishes rig telemetry with abstraction for testing.
// One message per completed measurement, plus system lifecycle events.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/flow-rig/internal/logic"
)

// TopicMeasurements is the MQTT topic for measurement results.
const TopicMeasurements = "lab/flow-rig/measurements"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "lab/flow-rig/system"

// Measurement is one completed measurement result.
type Measurement struct {
	Timestamp time.Time
	Button    logic.Button
	Mode      logic.Mode
	Seconds   int
	Pulses    uint32
}

// Publisher publishes rig telemetry.
type Publisher interface {
	// PublishMeasurement sends a measurement result to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishMeasurement(m Measurement) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// measurementPayload is the JSON envelope for a measurement result.
type measurementPayload struct {
	Measurement measurementInner `json:"measurement"`
}

type measurementInner struct {
	Timestamp string `json:"timestamp"`
	Button    string `json:"button"`
	Mode      string `json:"mode"`
	Seconds   int    `json:"seconds"`
	Pulses    uint32 `json:"pulses"`
}

// FormatMeasurementPayload creates the JSON payload for a measurement.
func FormatMeasurementPayload(m Measurement) ([]byte, error) {
	payload := measurementPayload{
		Measurement: measurementInner{
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
			Button:    string(m.Button),
			Mode:      string(m.Mode),
			Seconds:   m.Seconds,
			Pulses:    m.Pulses,
		},
	}
	return json.Marshal(payload)
}

// systemPayload is the JSON envelope for simple system events that don't
// carry a full status snapshot.
type systemPayload struct {
	System systemInner `json:"system"`
}

type systemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := systemPayload{
		System: systemInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
