//go:build linux

package gpio

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"golang.org/x/sys/unix"

	"github.com/sweeney/banana-cart/internal/logic"
)

// Chip is the GPIO character device used on the Raspberry Pi.
const Chip = "gpiochip0"

const consumer = "banana-cart"

// RealMotors drives the H-bridge through four output lines.
type RealMotors struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRealMotors requests the motor lines as outputs, initially low.
func NewRealMotors(pins MotorPins) (*RealMotors, error) {
	chip, err := gpiocdev.NewChip(Chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines, err := chip.RequestLines([]int{pins.IN1, pins.IN2, pins.IN3, pins.IN4}, gpiocdev.AsOutput(0, 0, 0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request motor pins %v: %w", pins, err)
	}

	return &RealMotors{chip: chip, lines: lines}, nil
}

// Forward drives both motors forward.
func (m *RealMotors) Forward() error {
	if err := m.lines.SetValues([]int{1, 0, 1, 0}); err != nil {
		return fmt.Errorf("set motor pins: %w", err)
	}
	return nil
}

// Stop drives all motor inputs low.
func (m *RealMotors) Stop() error {
	if err := m.lines.SetValues([]int{0, 0, 0, 0}); err != nil {
		return fmt.Errorf("set motor pins: %w", err)
	}
	return nil
}

// Close stops the motors and releases the lines as inputs with pull-down,
// matching Pi boot defaults so the H-bridge is not left driven.
func (m *RealMotors) Close() error {
	var errs []error
	if m.lines != nil {
		if err := m.lines.SetValues([]int{0, 0, 0, 0}); err != nil {
			errs = append(errs, fmt.Errorf("stop motors: %w", err))
		}
		if err := m.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure motor pins: %w", err))
		}
		if err := m.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close motor pins: %w", err))
		}
	}
	if m.chip != nil {
		if err := m.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealRangeFinder drives an HC-SR04 style ultrasonic sensor.
type RealRangeFinder struct {
	chip    *gpiocdev.Chip
	trig    *gpiocdev.Line
	echo    *gpiocdev.Line
	pulses  *pulseTimer
	timeout time.Duration
}

// NewRealRangeFinder requests TRIG as an output and ECHO as an edge-watched input.
func NewRealRangeFinder(pins RangePins, timeout time.Duration) (*RealRangeFinder, error) {
	chip, err := gpiocdev.NewChip(Chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	trig, err := chip.RequestLine(pins.Trig, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request TRIG pin %d: %w", pins.Trig, err)
	}

	pulses := newPulseTimer()
	echo, err := chip.RequestLine(pins.Echo,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(edgeHandler(pulses)))
	if err != nil {
		trig.Close()
		chip.Close()
		return nil, fmt.Errorf("request ECHO pin %d: %w", pins.Echo, err)
	}

	return &RealRangeFinder{
		chip:    chip,
		trig:    trig,
		echo:    echo,
		pulses:  pulses,
		timeout: timeout,
	}, nil
}

// Echo fires a 10µs trigger pulse and measures the high echo pulse.
func (r *RealRangeFinder) Echo(ctx context.Context) (time.Duration, error) {
	r.pulses.flush()

	if err := r.trig.SetValue(0); err != nil {
		return 0, fmt.Errorf("set TRIG low: %w", err)
	}
	since, err := monotonicNow()
	if err != nil {
		return 0, err
	}
	time.Sleep(2 * time.Microsecond)
	if err := r.trig.SetValue(1); err != nil {
		return 0, fmt.Errorf("set TRIG high: %w", err)
	}
	time.Sleep(10 * time.Microsecond)
	if err := r.trig.SetValue(0); err != nil {
		return 0, fmt.Errorf("set TRIG low: %w", err)
	}

	return r.pulses.measure(ctx, true, since, r.timeout)
}

// Close releases the ultrasonic lines.
func (r *RealRangeFinder) Close() error {
	return closeAll(r.chip, r.trig, r.echo)
}

// RealColorSensor reads a TCS3200 style color-to-frequency sensor.
type RealColorSensor struct {
	chip    *gpiocdev.Chip
	selects *gpiocdev.Lines // S0, S1, S2, S3
	out     *gpiocdev.Line
	pulses  *pulseTimer
	timeout time.Duration
}

// NewRealColorSensor requests the select lines with 20% frequency scaling
// (S0 high, S1 low) and the output line as an edge-watched input.
func NewRealColorSensor(pins ColorPins, timeout time.Duration) (*RealColorSensor, error) {
	chip, err := gpiocdev.NewChip(Chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	selects, err := chip.RequestLines([]int{pins.S0, pins.S1, pins.S2, pins.S3}, gpiocdev.AsOutput(1, 0, 0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request color select pins: %w", err)
	}

	pulses := newPulseTimer()
	out, err := chip.RequestLine(pins.Out,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(edgeHandler(pulses)))
	if err != nil {
		selects.Close()
		chip.Close()
		return nil, fmt.Errorf("request color OUT pin %d: %w", pins.Out, err)
	}

	return &RealColorSensor{
		chip:    chip,
		selects: selects,
		out:     out,
		pulses:  pulses,
		timeout: timeout,
	}, nil
}

// PulseWidth routes the channel to the output and measures one low pulse.
func (c *RealColorSensor) PulseWidth(ctx context.Context, ch logic.Channel) (logic.PulseWidth, error) {
	s2, s3 := channelSelect(ch)
	if err := c.selects.SetValues([]int{1, 0, s2, s3}); err != nil {
		return 0, fmt.Errorf("select %s channel: %w", ch, err)
	}
	since, err := monotonicNow()
	if err != nil {
		return 0, err
	}
	c.pulses.flush()

	d, err := c.pulses.measure(ctx, false, since, c.timeout)
	if err != nil {
		return 0, fmt.Errorf("measure %s pulse: %w", ch, err)
	}
	return logic.PulseWidth(d.Microseconds()), nil
}

// Close powers the sensor down (S0 and S1 low) and releases its lines.
func (c *RealColorSensor) Close() error {
	var errs []error
	if c.selects != nil {
		if err := c.selects.SetValues([]int{0, 0, 0, 0}); err != nil {
			errs = append(errs, fmt.Errorf("power down color sensor: %w", err))
		}
		if err := c.selects.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close color select pins: %w", err))
		}
	}
	if err := closeAll(c.chip, nil, c.out); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// monotonicNow reads the clock the kernel stamps line events with.
func monotonicNow() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, fmt.Errorf("read monotonic clock: %w", err)
	}
	return time.Duration(ts.Nano()), nil
}

func edgeHandler(p *pulseTimer) gpiocdev.EventHandler {
	return func(evt gpiocdev.LineEvent) {
		p.push(edge{
			rising: evt.Type == gpiocdev.LineEventRisingEdge,
			at:     evt.Timestamp,
		})
	}
}

func closeAll(chip *gpiocdev.Chip, lines ...*gpiocdev.Line) error {
	var errs []error
	for _, l := range lines {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if chip != nil {
		if err := chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
