// Package status provides a thread-safe status tracker for the banana-cart daemon.
// It is written by the control loop and read by HTTP handlers and MQTT
// lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs         int64
	HoldMs         int64
	HeartbeatMs    int64
	StopDistanceCM int64
	MaxPulseWidth  int
	GasThreshold   int
	HueThreshold   float64
	Broker         string
	HTTPAddr       string
	WSBroker       string // Websocket broker URL for browser MQTT (empty = disabled)
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Motion        logic.Motion
	DistanceCM    int64
	Last          *logic.Inspection
	Counts        logic.VerdictCounts
	CycleErrors   int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the result of one control cycle.
func (t *Tracker) Update(motion logic.Motion, distanceCM int64, counts logic.VerdictCounts) {
	t.mu.Lock()
	t.snap.Motion = motion
	t.snap.DistanceCM = distanceCM
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetInspection records the most recent inspection.
func (t *Tracker) SetInspection(in logic.Inspection) {
	t.mu.Lock()
	t.snap.Last = &in
	t.mu.Unlock()
}

// CycleFailed counts a control cycle that ended in a hardware error.
func (t *Tracker) CycleFailed() {
	t.mu.Lock()
	t.snap.CycleErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
