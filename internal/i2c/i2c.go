// Package i2c exposes a Linux i2c-dev bus as a tinygo.org/x/drivers.I2C, so
// the TinyGo peripheral drivers run unchanged on the Pi.
package i2c

import "fmt"

// DefaultBus is the header I2C bus on a Raspberry Pi.
const DefaultBus = 1

// DevicePath returns the i2c-dev node for a bus number.
func DevicePath(bus int) string {
	return fmt.Sprintf("/dev/i2c-%d", bus)
}
