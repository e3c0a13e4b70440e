package logic

import "golang.org/x/exp/constraints"

// DefaultMaxPulseWidth is the calibration ceiling for the color sensor.
const DefaultMaxPulseWidth PulseWidth = 2000

// NormalizePulseWidth maps a raw pulse width onto [0, 255]. The sensor reports
// inverse intensity, so a short pulse means a bright channel.
// Out-of-range inputs (pw > maxPW, pw < 0) clamp to 0 and 255 respectively.
// A non-positive maxPW yields 0.
func NormalizePulseWidth(pw, maxPW PulseWidth) Intensity {
	if maxPW <= 0 {
		return 0
	}
	val := float32(maxPW-pw) * 255 / float32(maxPW)
	return Intensity(clamp(val, 0, 255))
}

// NormalizeSample normalizes all three channels against the same ceiling.
func NormalizeSample(p RGBPulse, maxPW PulseWidth) ColorSample {
	return ColorSample{
		R: NormalizePulseWidth(p.R, maxPW),
		G: NormalizePulseWidth(p.G, maxPW),
		B: NormalizePulseWidth(p.B, maxPW),
	}
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
