// Package cart runs one sense-and-act cycle of the banana cart: range ahead,
// drive or stop, and when stopped sample the gas and color sensors, classify
// the banana and report the verdict.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/banana-cart/internal/display"
	"github.com/sweeney/banana-cart/internal/gpio"
	"github.com/sweeney/banana-cart/internal/logic"
)

// GasSensor returns one raw analog reading of the gas sensor.
type GasSensor interface {
	Read() (int, error)
}

// Reporter receives each completed inspection on the local link.
type Reporter interface {
	Report(in logic.Inspection) error
}

// Settings are the calibration and timing values the cycle uses.
type Settings struct {
	MaxPulseWidth  logic.PulseWidth
	GasZero        int
	GasSamples     int
	SampleDelay    time.Duration
	ChannelSettle  time.Duration
	StopDistanceCM int64
	Thresholds     logic.Thresholds
}

// DefaultSettings returns the reference calibration.
func DefaultSettings() Settings {
	return Settings{
		MaxPulseWidth:  logic.DefaultMaxPulseWidth,
		GasZero:        logic.DefaultGasZero,
		GasSamples:     10,
		SampleDelay:    50 * time.Millisecond,
		ChannelSettle:  50 * time.Millisecond,
		StopDistanceCM: logic.DefaultStopCM,
		Thresholds:     logic.DefaultThresholds(),
	}
}

// Devices groups the cart's peripherals.
type Devices struct {
	Motors   gpio.Motors
	Range    gpio.RangeFinder
	Color    gpio.ColorSensor
	Gas      GasSensor
	Display  display.Display
	Reporter Reporter
}

// Outcome describes what a cycle did.
type Outcome struct {
	DistanceCM int64
	Motion     logic.Motion
	// Inspection is set when the cart stopped and classified a banana.
	Inspection *logic.Inspection
}

// Cart runs control cycles. Not safe for concurrent use.
type Cart struct {
	dev      Devices
	settings Settings
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	newID    func() string
}

// New creates a Cart.
func New(dev Devices, settings Settings) *Cart {
	return &Cart{
		dev:      dev,
		settings: settings,
		now:      time.Now,
		sleep:    sleepCtx,
		newID:    func() string { return uuid.New().String() },
	}
}

// Ready shows the startup banner and leaves the motors stopped.
func (c *Cart) Ready() error {
	if err := c.dev.Motors.Stop(); err != nil {
		return fmt.Errorf("stop motors: %w", err)
	}
	if err := c.dev.Display.Status(display.TextReady); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Halt stops the motors. Called on shutdown.
func (c *Cart) Halt() error {
	if err := c.dev.Motors.Stop(); err != nil {
		return fmt.Errorf("stop motors: %w", err)
	}
	return nil
}

// Step runs one control cycle.
func (c *Cart) Step(ctx context.Context) (Outcome, error) {
	echo, err := c.dev.Range.Echo(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("range: %w", err)
	}
	out := Outcome{DistanceCM: logic.DistanceCM(echo)}

	if !logic.Blocked(out.DistanceCM, c.settings.StopDistanceCM) {
		if err := c.dev.Motors.Forward(); err != nil {
			return out, fmt.Errorf("drive forward: %w", err)
		}
		out.Motion = logic.MotionForward
		if err := c.dev.Display.Status(display.TextMoving); err != nil {
			return out, fmt.Errorf("display: %w", err)
		}
		return out, nil
	}

	if err := c.dev.Motors.Stop(); err != nil {
		return out, fmt.Errorf("stop motors: %w", err)
	}
	out.Motion = logic.MotionStopped
	if err := c.dev.Display.Status(display.TextDetected); err != nil {
		return out, fmt.Errorf("display: %w", err)
	}

	in, err := c.Inspect(ctx)
	if err != nil {
		return out, err
	}
	out.Inspection = &in

	if err := c.dev.Display.Result(display.ResultText(in.Verdict)); err != nil {
		return out, fmt.Errorf("display: %w", err)
	}
	if c.dev.Reporter != nil {
		if err := c.dev.Reporter.Report(in); err != nil {
			return out, fmt.Errorf("report: %w", err)
		}
	}
	return out, nil
}

// Inspect samples the gas and color sensors and classifies the result.
func (c *Cart) Inspect(ctx context.Context) (logic.Inspection, error) {
	ppm, err := c.readGas(ctx)
	if err != nil {
		return logic.Inspection{}, err
	}
	pulse, err := c.ReadPulses(ctx)
	if err != nil {
		return logic.Inspection{}, err
	}

	sample := logic.NormalizeSample(pulse, c.settings.MaxPulseWidth)
	color := logic.RGBToHSV(sample)
	return logic.Inspection{
		ID:        c.newID(),
		Timestamp: c.now(),
		Pulse:     pulse,
		Sample:    sample,
		Color:     color,
		GasPPM:    ppm,
		Verdict:   logic.Classify(ppm, color, c.settings.Thresholds),
	}, nil
}

// ReadPulses reads red, green and blue in that order, letting the sensor
// settle after each channel.
func (c *Cart) ReadPulses(ctx context.Context) (logic.RGBPulse, error) {
	var pw [3]logic.PulseWidth
	for i, ch := range logic.Channels {
		v, err := c.dev.Color.PulseWidth(ctx, ch)
		if err != nil {
			return logic.RGBPulse{}, fmt.Errorf("read %s: %w", ch, err)
		}
		pw[i] = v
		if err := c.sleep(ctx, c.settings.ChannelSettle); err != nil {
			return logic.RGBPulse{}, err
		}
	}
	return logic.RGBPulse{R: pw[0], G: pw[1], B: pw[2]}, nil
}

func (c *Cart) readGas(ctx context.Context) (logic.GasConcentration, error) {
	raw := make([]int, 0, c.settings.GasSamples)
	for i := 0; i < c.settings.GasSamples; i++ {
		v, err := c.dev.Gas.Read()
		if err != nil {
			return 0, fmt.Errorf("read gas sample %d: %w", i, err)
		}
		raw = append(raw, v)
		if err := c.sleep(ctx, c.settings.SampleDelay); err != nil {
			return 0, err
		}
	}
	return logic.GasPPM(raw, c.settings.GasZero), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
