package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Motion        string          `json:"motion"`
	DistanceCM    int64           `json:"distance_cm"`
	Last          *InspectionJSON `json:"last_inspection,omitempty"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Counts        CountsJSON      `json:"verdict_counts"`
	CycleErrors   int             `json:"cycle_errors"`
	Network       *NetworkJSON    `json:"network,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// InspectionJSON is the JSON representation of the last inspection.
type InspectionJSON struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Result    string  `json:"result"`
	GasPPM    int     `json:"gas_ppm"`
	Hue       float64 `json:"hue"`
	Sat       float64 `json:"saturation"`
	Val       float64 `json:"value"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of verdict counts.
type CountsJSON struct {
	Good   int `json:"good"`
	Rotten int `json:"rotten"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs         int64   `json:"poll_ms"`
	HoldMs         int64   `json:"hold_ms"`
	HeartbeatMs    int64   `json:"heartbeat_ms"`
	StopDistanceCM int64   `json:"stop_distance_cm"`
	MaxPulseWidth  int     `json:"max_pulse_width"`
	GasThreshold   int     `json:"gas_threshold_ppm"`
	HueThreshold   float64 `json:"hue_threshold"`
	Broker         string  `json:"broker"`
	HTTPAddr       string  `json:"http_addr"`
	WSBroker       string  `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	motion := string(snap.Motion)
	if motion == "" {
		motion = "UNKNOWN"
	}

	inner := StatusInner{
		Motion:        motion,
		DistanceCM:    snap.DistanceCM,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts:        CountsJSON{Good: snap.Counts.Good, Rotten: snap.Counts.Rotten},
		CycleErrors:   snap.CycleErrors,
		Config: ConfigJSON{
			PollMs:         snap.Config.PollMs,
			HoldMs:         snap.Config.HoldMs,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			StopDistanceCM: snap.Config.StopDistanceCM,
			MaxPulseWidth:  snap.Config.MaxPulseWidth,
			GasThreshold:   snap.Config.GasThreshold,
			HueThreshold:   snap.Config.HueThreshold,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
			WSBroker:       snap.Config.WSBroker,
		},
	}

	if l := snap.Last; l != nil {
		inner.Last = &InspectionJSON{
			ID:        l.ID,
			Timestamp: l.Timestamp.UTC().Format(time.RFC3339),
			Result:    string(l.Verdict),
			GasPPM:    int(l.GasPPM),
			Hue:       logic.Widen(l.Color.H),
			Sat:       logic.Widen(l.Color.S),
			Val:       logic.Widen(l.Color.V),
		}
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
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
