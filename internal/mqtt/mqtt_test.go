package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

func testInspection() logic.Inspection {
	return logic.Inspection{
		ID:        "5b0f7a2e-2a4e-4c4a-9d65-0d3c7f1d1a11",
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Pulse:     logic.RGBPulse{R: 200, G: 400, B: 1900},
		Sample:    logic.ColorSample{R: 229.5, G: 204, B: 12.75},
		Color:     logic.HSV{H: 52.5, S: 0.75, V: 0.9},
		GasPPM:    245,
		Verdict:   logic.VerdictGood,
	}
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(testInspection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	in := parsed.Inspection
	if in.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", in.Timestamp)
	}
	if in.Result != "GOOD" {
		t.Errorf("unexpected result: %s", in.Result)
	}
	if in.GasPPM != 245 {
		t.Errorf("unexpected gas_ppm: %d", in.GasPPM)
	}
	if in.HSV.H != 52.5 || in.HSV.S != 0.75 || in.HSV.V != 0.9 {
		t.Errorf("unexpected hsv: %+v", in.HSV)
	}
	if in.RGB.R != 229.5 || in.RGB.B != 12.75 {
		t.Errorf("unexpected rgb: %+v", in.RGB)
	}
	if in.Pulse.B != 1900 {
		t.Errorf("unexpected pulse: %+v", in.Pulse)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	payload, err := FormatPayload(testInspection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"inspection":{"id":"5b0f7a2e-2a4e-4c4a-9d65-0d3c7f1d1a11","timestamp":"2026-02-02T22:18:12Z","result":"GOOD","gas_ppm":245,"hsv":{"h":52.5,"s":0.75,"v":0.9},"rgb":{"r":229.5,"g":204,"b":12.75},"pulse_us":{"r":200,"g":400,"b":1900}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	in := testInspection()
	in.Timestamp = time.Date(2026, 2, 2, 23, 18, 12, 0, time.FixedZone("CET", 3600))

	payload, _ := FormatPayload(in)
	var parsed Payload
	json.Unmarshal(payload, &parsed)

	if parsed.Inspection.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Inspection.Timestamp)
	}
}

func TestNegativeGasSurvivesEncoding(t *testing.T) {
	in := testInspection()
	in.GasPPM = -55

	payload, _ := FormatPayload(in)
	var parsed Payload
	json.Unmarshal(payload, &parsed)
	if parsed.Inspection.GasPPM != -55 {
		t.Errorf("gas_ppm: got %d, want -55", parsed.Inspection.GasPPM)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "cart/banana/inspections" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "cart/banana/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadReconnected(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
		Dropped:   4,
	}

	payload, _ := FormatSystemPayload(event)
	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED","dropped":4}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}

func TestWillPayloadFormat(t *testing.T) {
	expected := `{"system":{"event":"OFFLINE","reason":"LWT"}}`
	if got := string(WillPayload()); got != expected {
		t.Errorf("unexpected will payload:\ngot:  %s\nwant: %s", got, expected)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(testInspection()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Inspections) != 1 || len(f.Payloads) != 1 {
		t.Fatalf("expected 1 inspection and payload, got %d/%d", len(f.Inspections), len(f.Payloads))
	}
	if f.Inspections[0].Verdict != logic.VerdictGood {
		t.Errorf("unexpected verdict: %s", f.Inspections[0].Verdict)
	}

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("unexpected system events: %+v", f.SystemEvents)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated system error")

	if err := f.Publish(testInspection()); err == nil {
		t.Error("expected error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected error")
	}
	if len(f.Inspections) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(testInspection())
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Connected = true
	f.Close()

	f.Reset()

	if len(f.Inspections) != 0 || len(f.Payloads) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("expected all records cleared")
	}
	if f.Closed || f.Connected {
		t.Error("expected flags cleared")
	}
}
