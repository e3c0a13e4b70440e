// Package logic contains the pure computational kernel of the cart: pulse-width
// normalization, RGB to HSV conversion and the ripeness classifier, plus the
// small reductions applied to raw distance and gas readings.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"strconv"
	"time"
)

// PulseWidth is a raw color sensor pulse duration in microseconds.
type PulseWidth int

// Intensity is a normalized channel intensity in [0, 255].
// The color path runs in single precision so hues on the classifier
// boundary land on the same side as the cart firmware's 32-bit floats.
type Intensity float32

// GasConcentration is a ppm-equivalent gas estimate. It may be negative after
// the zero-point offset is subtracted.
type GasConcentration int

// Channel selects one of the color sensor's photodiode groups.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

// Channels lists the channels in the order they must be read.
var Channels = [3]Channel{Red, Green, Blue}

// RGBPulse holds one raw pulse width per channel.
type RGBPulse struct {
	R PulseWidth
	G PulseWidth
	B PulseWidth
}

// ColorSample holds one normalized intensity per channel.
type ColorSample struct {
	R Intensity
	G Intensity
	B Intensity
}

// HSV is a hue/saturation/value color.
type HSV struct {
	H float32 // degrees, [0, 360)
	S float32 // [0, 1]
	V float32 // [0, 1]
}

// Widen converts a single-precision value to the float64 with the same
// shortest decimal form, so 0.9 is reported as 0.9 rather than 0.8999999761581421.
func Widen(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}

// Verdict is the ripeness classification of one inspection.
type Verdict string

const (
	VerdictGood   Verdict = "GOOD"
	VerdictRotten Verdict = "ROTTEN"
)

// Motion is the drive state of the cart.
type Motion string

const (
	MotionForward Motion = "FORWARD"
	MotionStopped Motion = "STOPPED"
)

// Inspection is the full record of one classification cycle.
type Inspection struct {
	ID        string
	Timestamp time.Time
	Pulse     RGBPulse
	Sample    ColorSample
	Color     HSV
	GasPPM    GasConcentration
	Verdict   Verdict
}

// VerdictCounts tracks the number of each verdict since startup.
type VerdictCounts struct {
	Good   int
	Rotten int
}

// Total returns the number of inspections counted.
func (c VerdictCounts) Total() int {
	return c.Good + c.Rotten
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    VerdictCounts
}
