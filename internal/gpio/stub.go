//go:build !linux

package gpio

import (
	"context"
	"errors"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealMotors is not available on non-Linux platforms.
type RealMotors struct{}

// NewRealMotors returns an error on non-Linux platforms.
func NewRealMotors(MotorPins) (*RealMotors, error) { return nil, errUnsupported }

func (m *RealMotors) Forward() error { return errUnsupported }
func (m *RealMotors) Stop() error    { return errUnsupported }
func (m *RealMotors) Close() error   { return nil }

// RealRangeFinder is not available on non-Linux platforms.
type RealRangeFinder struct{}

// NewRealRangeFinder returns an error on non-Linux platforms.
func NewRealRangeFinder(RangePins, time.Duration) (*RealRangeFinder, error) {
	return nil, errUnsupported
}

func (r *RealRangeFinder) Echo(context.Context) (time.Duration, error) { return 0, errUnsupported }
func (r *RealRangeFinder) Close() error                                { return nil }

// RealColorSensor is not available on non-Linux platforms.
type RealColorSensor struct{}

// NewRealColorSensor returns an error on non-Linux platforms.
func NewRealColorSensor(ColorPins, time.Duration) (*RealColorSensor, error) {
	return nil, errUnsupported
}

func (c *RealColorSensor) PulseWidth(context.Context, logic.Channel) (logic.PulseWidth, error) {
	return 0, errUnsupported
}
func (c *RealColorSensor) Close() error { return nil }
