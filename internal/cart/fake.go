package cart

import "errors"

// FakeGasSensor returns scripted raw readings; the last repeats.
type FakeGasSensor struct {
	Readings []int
	index    int

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Calls counts Read invocations.
	Calls int
}

// NewFakeGasSensor creates a FakeGasSensor.
func NewFakeGasSensor(readings ...int) *FakeGasSensor {
	return &FakeGasSensor{Readings: readings}
}

func (f *FakeGasSensor) Read() (int, error) {
	f.Calls++
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Readings) == 0 {
		return 0, errors.New("no readings configured")
	}
	v := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}
	return v, nil
}
