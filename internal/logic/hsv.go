package logic

import "math"

// RGBToHSV converts a normalized sample to HSV with hue in degrees.
//
// Every intermediate is rounded to float32. Ties at the maximum resolve by
// fixed precedence: red, then green, then blue. A grey or black sample
// (delta == 0) has hue 0; black (max == 0) also has saturation 0.
func RGBToHSV(c ColorSample) HSV {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255

	maxc := max(r, g, b)
	minc := min(r, g, b)
	delta := maxc - minc

	var h float32
	switch {
	case delta == 0:
		h = 0
	case maxc == r:
		// fmod is exact, so computing it in float64 loses nothing.
		h = 60 * float32(math.Mod(float64((g-b)/delta), 6))
	case maxc == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	// A tiny negative hue can round up to exactly 360 after correction.
	if h >= 360 {
		h -= 360
	}

	var s float32
	if maxc != 0 {
		s = delta / maxc
	}

	return HSV{H: h, S: s, V: maxc}
}
