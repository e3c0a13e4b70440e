package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 100, HoldMs: 3000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.HoldMs != 3000 {
		t.Errorf("Config.HoldMs: got %d, want 3000", snap.Config.HoldMs)
	}
	if snap.Motion != "" {
		t.Errorf("expected no motion initially, got %q", snap.Motion)
	}
	if snap.Last != nil {
		t.Error("expected no inspection initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(logic.MotionStopped, 3, logic.VerdictCounts{Good: 2, Rotten: 1})

	snap := tr.Snapshot()
	if snap.Motion != logic.MotionStopped {
		t.Errorf("Motion: got %q, want STOPPED", snap.Motion)
	}
	if snap.DistanceCM != 3 {
		t.Errorf("DistanceCM: got %d, want 3", snap.DistanceCM)
	}
	if snap.Counts.Good != 2 || snap.Counts.Rotten != 1 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
}

func TestSetInspectionIsCopied(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	in := logic.Inspection{ID: "a", Verdict: logic.VerdictRotten}
	tr.SetInspection(in)

	snap := tr.Snapshot()
	if snap.Last == nil || snap.Last.ID != "a" {
		t.Fatalf("Last: got %+v", snap.Last)
	}

	snap.Last.ID = "mutated"
	if tr.Snapshot().Last.ID != "a" {
		t.Error("snapshot mutation leaked into tracker")
	}
}

func TestCycleFailed(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.CycleFailed()
	tr.CycleFailed()
	if got := tr.Snapshot().CycleErrors; got != 2 {
		t.Errorf("CycleErrors: got %d, want 2", got)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"})
	snap := tr.Snapshot()
	if snap.Network == nil || snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network: got %+v", snap.Network)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.Update(logic.MotionForward, int64(i), logic.VerdictCounts{Good: i})
			tr.SetInspection(logic.Inspection{ID: "x"})
			tr.SetMQTTConnected(i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSONUnknownBeforeFirstCycle(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{Broker: "tcp://b:1883"})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Motion != "UNKNOWN" {
		t.Errorf("Motion: got %q, want UNKNOWN", sj.Status.Motion)
	}
	if sj.Status.Last != nil {
		t.Error("expected no last_inspection")
	}
	if sj.Status.Event != "" {
		t.Errorf("web JSON should not carry an event, got %q", sj.Status.Event)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Motion:     logic.MotionStopped,
		DistanceCM: 2,
		Last: &logic.Inspection{
			ID:        "id-1",
			Timestamp: start.Add(time.Minute),
			Color:     logic.HSV{H: 104.5, S: 0.5, V: 0.4},
			GasPPM:    120,
			Verdict:   logic.VerdictRotten,
		},
		Counts:    logic.VerdictCounts{Good: 4, Rotten: 1},
		StartTime: start,
		Now:       start.Add(90 * time.Second),
		Network:   &NetworkInfo{Type: "wifi", SSID: "Orchard"},
		Config:    Config{HueThreshold: 100, GasThreshold: 400},
	}

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := sj.Status
	if s.Event != "SHUTDOWN" || s.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q/%q", s.Event, s.Reason)
	}
	if s.UptimeSeconds != 90 {
		t.Errorf("UptimeSeconds: got %d, want 90", s.UptimeSeconds)
	}
	if s.Last == nil || s.Last.Result != "ROTTEN" || s.Last.Hue != 104.5 {
		t.Errorf("Last: got %+v", s.Last)
	}
	if s.Counts.Good != 4 || s.Counts.Rotten != 1 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Network == nil || s.Network.SSID != "Orchard" {
		t.Errorf("Network: got %+v", s.Network)
	}
	if s.Config.HueThreshold != 100 || s.Config.GasThreshold != 400 {
		t.Errorf("Config: got %+v", s.Config)
	}
}
