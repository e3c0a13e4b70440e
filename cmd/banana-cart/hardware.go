package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/sweeney/banana-cart/internal/adc"
	"github.com/sweeney/banana-cart/internal/cart"
	"github.com/sweeney/banana-cart/internal/config"
	"github.com/sweeney/banana-cart/internal/display"
	"github.com/sweeney/banana-cart/internal/gpio"
	"github.com/sweeney/banana-cart/internal/i2c"
	"github.com/sweeney/banana-cart/internal/serial"
)

// hardware owns the opened peripherals and closes them in reverse order.
type hardware struct {
	devices cart.Devices
	closers []io.Closer
}

func (h *hardware) add(c io.Closer) {
	h.closers = append(h.closers, c)
}

// Close releases every opened peripheral.
func (h *hardware) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openColorSensor opens only the color sensor, for calibration runs.
func openColorSensor(cfg config.Config) (*hardware, error) {
	h := &hardware{}
	color, err := gpio.NewRealColorSensor(cfg.ColorPins(), cfg.Calibration.PulseTimeout)
	if err != nil {
		return nil, fmt.Errorf("init color sensor: %w", err)
	}
	h.add(color)
	h.devices.Color = color
	return h, nil
}

// openHardware opens every peripheral the control loop needs. A missing
// serial port is logged and skipped; everything else is required.
func openHardware(cfg config.Config) (_ *hardware, err error) {
	h := &hardware{}
	defer func() {
		if err != nil {
			h.Close()
		}
	}()

	motors, err := gpio.NewRealMotors(cfg.MotorPins())
	if err != nil {
		return nil, fmt.Errorf("init motors: %w", err)
	}
	h.add(motors)
	h.devices.Motors = motors

	ranger, err := gpio.NewRealRangeFinder(cfg.RangePins(), cfg.Calibration.PulseTimeout)
	if err != nil {
		return nil, fmt.Errorf("init range finder: %w", err)
	}
	h.add(ranger)
	h.devices.Range = ranger

	color, err := gpio.NewRealColorSensor(cfg.ColorPins(), cfg.Calibration.PulseTimeout)
	if err != nil {
		return nil, fmt.Errorf("init color sensor: %w", err)
	}
	h.add(color)
	h.devices.Color = color

	bus, err := i2c.Open(cfg.I2C.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	h.add(bus)

	lcd, err := display.NewLCD(bus, cfg.LCD())
	if err != nil {
		return nil, fmt.Errorf("init lcd: %w", err)
	}
	h.add(lcd)
	h.devices.Display = lcd

	h.devices.Gas = adc.New(bus, cfg.ADC())

	if cfg.Serial.Device != "" {
		port, err := serial.Open(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			log.Printf("serial disabled: %v", err)
		} else {
			h.add(port)
			h.devices.Reporter = serial.NewReporter(port)
		}
	}

	return h, nil
}
