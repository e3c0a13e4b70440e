// Package adc reads an ADS1115 analog-to-digital converter over I2C.
//
// The MQ-135 gas sensor calibration is expressed in 10-bit counts of a 5 V
// reference, so Read rescales the 16-bit conversion onto that range.
package adc

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// DefaultAddress is the ADS1115 address with ADDR tied to ground.
const DefaultAddress = 0x48

const (
	regConversion = 0x00
	regConfig     = 0x01

	fullScaleVolts = 4.096 // PGA setting written in config
	countsPerVolt  = 32768 / fullScaleVolts
	tenBitMax      = 1023

	conversionTime = 9 * time.Millisecond // 128 SPS plus margin
)

// Config selects the input and reference used for rescaling.
type Config struct {
	Address uint16
	Channel int     // single-ended input AIN0..AIN3
	VRef    float64 // reference the 10-bit counts are relative to, volts
}

// Device is one ADS1115.
type Device struct {
	bus   drivers.I2C
	cfg   Config
	sleep func(time.Duration)
}

// New creates a Device. Zero config fields take defaults.
func New(bus drivers.I2C, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.VRef == 0 {
		cfg.VRef = 5.0
	}
	return &Device{bus: bus, cfg: cfg, sleep: time.Sleep}
}

// configWord builds a single-shot, single-ended, ±4.096 V, 128 SPS
// conversion request with the comparator disabled.
func configWord(channel int) [2]byte {
	mux := byte(0x4 | (channel & 0x3))
	hi := 0x80 | mux<<4 | 0x1<<1 | 0x1 // OS | MUX | PGA=001 | MODE=single
	lo := byte(0x80 | 0x03)            // DR=100 | COMP_QUE=11
	return [2]byte{hi, lo}
}

// ReadRaw performs one conversion and returns the signed 16-bit result.
func (d *Device) ReadRaw() (int16, error) {
	cw := configWord(d.cfg.Channel)
	if err := d.bus.Tx(d.cfg.Address, []byte{regConfig, cw[0], cw[1]}, nil); err != nil {
		return 0, fmt.Errorf("start conversion: %w", err)
	}
	d.sleep(conversionTime)

	buf := make([]byte, 2)
	if err := d.bus.Tx(d.cfg.Address, []byte{regConversion}, buf); err != nil {
		return 0, fmt.Errorf("read conversion: %w", err)
	}
	return int16(uint16(buf[0])<<8 | uint16(buf[1])), nil
}

// Read returns the conversion as 10-bit counts of VRef, clamped to [0, 1023].
func (d *Device) Read() (int, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return 0, err
	}
	return scale(raw, d.cfg.VRef), nil
}

func scale(raw int16, vref float64) int {
	if raw <= 0 {
		return 0
	}
	volts := float64(raw) / countsPerVolt
	counts := int(volts / vref * tenBitMax)
	if counts > tenBitMax {
		return tenBitMax
	}
	return counts
}
