package logic

// Thresholds are the fixed decision boundaries of the ripeness classifier.
type Thresholds struct {
	GasPPM GasConcentration // rotten when ppm is strictly above
	Hue    float32          // rotten when hue is at or above
}

// DefaultThresholds returns the calibrated banana thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{GasPPM: 400, Hue: 100.0}
}

// Classify returns ROTTEN if either signal crosses its threshold.
// It keeps no state between calls.
func Classify(ppm GasConcentration, color HSV, th Thresholds) Verdict {
	if ppm > th.GasPPM || color.H >= th.Hue {
		return VerdictRotten
	}
	return VerdictGood
}
