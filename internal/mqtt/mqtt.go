// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

// Topic is the MQTT topic for inspection results.
const Topic = "cart/banana/inspections"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "cart/banana/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an inspection result to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(in logic.Inspection) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Dropped    int    // messages lost while offline (RECONNECTED only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Inspection InspectionPayload `json:"inspection"`
}

// InspectionPayload contains the inspection details.
type InspectionPayload struct {
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Result    string       `json:"result"`
	GasPPM    int          `json:"gas_ppm"`
	HSV       HSVPayload   `json:"hsv"`
	RGB       RGBPayload   `json:"rgb"`
	Pulse     PulsePayload `json:"pulse_us"`
}

// HSVPayload is the converted color.
type HSVPayload struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// RGBPayload is the normalized color sample.
type RGBPayload struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// PulsePayload is the raw sensor pulse widths.
type PulsePayload struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// NewPayload builds the wire form of an inspection. It is shared by every
// telemetry sink so consumers see one schema.
func NewPayload(in logic.Inspection) Payload {
	return Payload{
		Inspection: InspectionPayload{
			ID:        in.ID,
			Timestamp: in.Timestamp.UTC().Format(time.RFC3339),
			Result:    string(in.Verdict),
			GasPPM:    int(in.GasPPM),
			HSV: HSVPayload{
				H: logic.Widen(in.Color.H),
				S: logic.Widen(in.Color.S),
				V: logic.Widen(in.Color.V),
			},
			RGB: RGBPayload{
				R: logic.Widen(float32(in.Sample.R)),
				G: logic.Widen(float32(in.Sample.G)),
				B: logic.Widen(float32(in.Sample.B)),
			},
			Pulse: PulsePayload{R: int(in.Pulse.R), G: int(in.Pulse.G), B: int(in.Pulse.B)},
		},
	}
}

// FormatPayload creates the JSON payload for an inspection.
func FormatPayload(in logic.Inspection) ([]byte, error) {
	return json.Marshal(NewPayload(in))
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
	Dropped   int    `json:"dropped,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:   event.Event,
		Reason:  event.Reason,
		Dropped: event.Dropped,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}

// WillPayload is the retained last-will message the broker publishes if the
// cart drops off the network without a clean shutdown.
func WillPayload() []byte {
	data, _ := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "LWT"})
	return data
}
