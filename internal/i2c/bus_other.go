//go:build !linux

package i2c

import "errors"

// Bus is not available on non-Linux platforms.
type Bus struct{}

// Open returns an error on non-Linux platforms.
func Open(bus int) (*Bus, error) {
	return nil, errors.New("i2c: not supported on this platform (requires Linux)")
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return errors.New("i2c: not supported")
}

func (b *Bus) Close() error { return nil }
