package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	State         string      `json:"state"`
	Valve         string      `json:"valve"`
	Last          *ResultJSON `json:"last_measurement,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"measurement_counts"`
	Config        ConfigJSON  `json:"config"`
}

// ResultJSON is the JSON representation of a completed measurement.
type ResultJSON struct {
	Button   string `json:"button"`
	Mode     string `json:"mode"`
	Seconds  int    `json:"seconds"`
	Pulses   uint32 `json:"pulses"`
	Finished string `json:"finished"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of measurement counts.
type CountsJSON struct {
	OneSec     int `json:"button_1s"`
	ThreeSec   int `json:"button_3s"`
	TenSec     int `json:"button_10s"`
	HundredSec int `json:"button_100s"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs       int64  `json:"poll_ms"`
	DebounceMs   int64  `json:"debounce_ms"`
	DebounceMode string `json:"debounce_mode"`
	SplitCycles  int    `json:"split_cycles"`
	SplitPauseMs int64  `json:"split_pause_ms"`
	Broker       string `json:"broker,omitempty"`
	HTTPAddr     string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		State:         string(snap.State),
		Valve:         string(snap.Valve),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			OneSec:     snap.Counts.OneSec,
			ThreeSec:   snap.Counts.ThreeSec,
			TenSec:     snap.Counts.TenSec,
			HundredSec: snap.Counts.HundredSec,
		},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			DebounceMs:   snap.Config.DebounceMs,
			DebounceMode: snap.Config.DebounceMode,
			SplitCycles:  snap.Config.SplitCycles,
			SplitPauseMs: snap.Config.SplitPauseMs,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}

	if snap.Last != nil {
		inner.Last = &ResultJSON{
			Button:   string(snap.Last.Button),
			Mode:     string(snap.Last.Mode),
			Seconds:  snap.Last.Seconds,
			Pulses:   snap.Last.Pulses,
			Finished: snap.Last.Finished.UTC().Format(time.RFC3339),
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
