//go:build !linux

package serial

import (
	"errors"
	"os"
)

// Open returns an error on non-Linux platforms.
func Open(device string, baud int) (*os.File, error) {
	return nil, errors.New("serial: not supported on this platform (requires Linux)")
}
