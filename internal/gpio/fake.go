package gpio

import (
	"context"
	"errors"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

// FakeMotors records motor commands.
type FakeMotors struct {
	// Commands contains "FORWARD" or "STOP" for each call, in order.
	Commands []string

	// Err, if set, will be returned by Forward and Stop.
	Err error

	Closed bool
}

// NewFakeMotors creates a FakeMotors.
func NewFakeMotors() *FakeMotors {
	return &FakeMotors{}
}

func (f *FakeMotors) Forward() error {
	if f.Err != nil {
		return f.Err
	}
	f.Commands = append(f.Commands, "FORWARD")
	return nil
}

func (f *FakeMotors) Stop() error {
	if f.Err != nil {
		return f.Err
	}
	f.Commands = append(f.Commands, "STOP")
	return nil
}

func (f *FakeMotors) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent command, or "" if none.
func (f *FakeMotors) Last() string {
	if len(f.Commands) == 0 {
		return ""
	}
	return f.Commands[len(f.Commands)-1]
}

// FakeRangeFinder returns scripted echo durations.
// Each call to Echo consumes the next value; the last repeats.
type FakeRangeFinder struct {
	Echoes []time.Duration
	index  int

	// EchoError, if set, will be returned by Echo.
	EchoError error

	Closed bool
}

// NewFakeRangeFinder creates a FakeRangeFinder with the given echoes.
func NewFakeRangeFinder(echoes ...time.Duration) *FakeRangeFinder {
	return &FakeRangeFinder{Echoes: echoes}
}

// EchoForCM returns the echo duration that converts back to cm.
func EchoForCM(cm int64) time.Duration {
	// Round trip at 0.034 cm/µs, padded so truncation lands on cm.
	us := float64(cm)*2/0.034 + 1
	return time.Duration(us) * time.Microsecond
}

func (f *FakeRangeFinder) Echo(ctx context.Context) (time.Duration, error) {
	if f.EchoError != nil {
		return 0, f.EchoError
	}
	if len(f.Echoes) == 0 {
		return 0, errors.New("no echoes configured")
	}
	e := f.Echoes[f.index]
	if f.index < len(f.Echoes)-1 {
		f.index++
	}
	return e, nil
}

func (f *FakeRangeFinder) Close() error {
	f.Closed = true
	return nil
}

// FakeColorSensor returns scripted pulse widths per channel and records the
// order in which channels were read.
type FakeColorSensor struct {
	// Samples contains one RGBPulse per cycle. A full red, green, blue read
	// consumes one sample; the last repeats.
	Samples []logic.RGBPulse
	index   int
	reads   int

	// Reads records every channel read, in order.
	Reads []logic.Channel

	// ReadError, if set, will be returned by PulseWidth.
	ReadError error

	Closed bool
}

// NewFakeColorSensor creates a FakeColorSensor with the given samples.
func NewFakeColorSensor(samples ...logic.RGBPulse) *FakeColorSensor {
	return &FakeColorSensor{Samples: samples}
}

func (f *FakeColorSensor) PulseWidth(ctx context.Context, ch logic.Channel) (logic.PulseWidth, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	f.Reads = append(f.Reads, ch)

	s := f.Samples[f.index]
	f.reads++
	if f.reads%len(logic.Channels) == 0 && f.index < len(f.Samples)-1 {
		f.index++
	}

	switch ch {
	case logic.Red:
		return s.R, nil
	case logic.Green:
		return s.G, nil
	case logic.Blue:
		return s.B, nil
	}
	return 0, errors.New("unknown channel")
}

func (f *FakeColorSensor) Close() error {
	f.Closed = true
	return nil
}
