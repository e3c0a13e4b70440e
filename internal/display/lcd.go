package display

import (
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// DefaultAddress is the usual PCF8574 backpack address.
const DefaultAddress = 0x27

// LCDConfig describes the character LCD.
type LCDConfig struct {
	Address uint8
	Width   uint8
	Height  uint8
}

// LCD drives an HD44780 behind a PCF8574 I2C backpack.
type LCD struct {
	dev   hd44780i2c.Device
	width int
}

// NewLCD initializes the display, turns the backlight on and clears it.
func NewLCD(bus drivers.I2C, cfg LCDConfig) (*LCD, error) {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.Width == 0 {
		cfg.Width = 16
	}
	if cfg.Height == 0 {
		cfg.Height = 2
	}

	dev := hd44780i2c.New(bus, cfg.Address)
	if err := dev.Configure(hd44780i2c.Config{Width: cfg.Width, Height: cfg.Height}); err != nil {
		return nil, fmt.Errorf("configure lcd at 0x%02x: %w", cfg.Address, err)
	}
	dev.BacklightOn(true)
	dev.ClearDisplay()

	return &LCD{dev: dev, width: int(cfg.Width)}, nil
}

func (l *LCD) Status(text string) error {
	l.print(0, text)
	return nil
}

func (l *LCD) Result(text string) error {
	l.print(1, text)
	return nil
}

func (l *LCD) print(row uint8, text string) {
	if len(text) > l.width {
		text = text[:l.width]
	}
	l.dev.SetCursor(0, row)
	l.dev.Print([]byte(text))
}

// Close clears the display and switches the backlight off.
func (l *LCD) Close() error {
	l.dev.ClearDisplay()
	l.dev.BacklightOn(false)
	return nil
}
