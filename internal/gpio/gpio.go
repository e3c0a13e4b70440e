// Package gpio provides motor output and pulse-timed sensor input with hardware
// abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"context"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

// Motors drives the two-motor H-bridge.
type Motors interface {
	// Forward drives both motors forward (IN1 high, IN2 low, IN3 high, IN4 low).
	Forward() error
	// Stop drives all inputs low.
	Stop() error
	Close() error
}

// RangeFinder triggers the ultrasonic sensor and returns the echo pulse.
type RangeFinder interface {
	// Echo returns the duration of the echo pulse. A pulse that never arrives
	// yields zero, not an error.
	Echo(ctx context.Context) (time.Duration, error)
	Close() error
}

// ColorSensor reads one channel of the frequency-output color sensor.
type ColorSensor interface {
	// PulseWidth selects the channel and returns the low pulse width in
	// microseconds. Calls must not be interleaved: channels share one output.
	PulseWidth(ctx context.Context, ch logic.Channel) (logic.PulseWidth, error)
	Close() error
}

// MotorPins are BCM line offsets for the H-bridge inputs.
type MotorPins struct {
	IN1, IN2, IN3, IN4 int
}

// RangePins are BCM line offsets for the ultrasonic sensor.
type RangePins struct {
	Trig, Echo int
}

// ColorPins are BCM line offsets for the color sensor.
type ColorPins struct {
	S0, S1, S2, S3, Out int
}

// Default pin assignment (BCM numbering).
var (
	DefaultMotorPins = MotorPins{IN1: 17, IN2: 27, IN3: 22, IN4: 23}
	DefaultRangePins = RangePins{Trig: 24, Echo: 25}
	DefaultColorPins = ColorPins{S0: 5, S1: 6, S2: 13, S3: 19, Out: 26}
)

// DefaultPulseTimeout bounds a single pulse measurement.
const DefaultPulseTimeout = time.Second

// channelSelect returns the S2, S3 levels that route a channel to the output.
func channelSelect(ch logic.Channel) (s2, s3 int) {
	switch ch {
	case logic.Green:
		return 1, 1
	case logic.Blue:
		return 0, 1
	default:
		return 0, 0
	}
}
