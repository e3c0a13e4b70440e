package logic

import "time"

// Defaults for the acquisition reductions.
const (
	DefaultGasZero   = 55
	DefaultStopCM    = 4
	soundCMPerMicros = 0.034
)

// GasPPM averages raw analog samples (integer division) and subtracts the
// zero-point offset. No samples yields -zero.
func GasPPM(raw []int, zero int) GasConcentration {
	if len(raw) == 0 {
		return GasConcentration(-zero)
	}
	sum := 0
	for _, v := range raw {
		sum += v
	}
	return GasConcentration(sum/len(raw) - zero)
}

// DistanceCM converts an ultrasonic echo duration to whole centimetres.
func DistanceCM(echo time.Duration) int64 {
	us := float64(echo.Microseconds())
	return int64(us * soundCMPerMicros / 2)
}

// Blocked reports whether an obstacle is within the stop distance.
func Blocked(distanceCM, stopCM int64) bool {
	return distanceCM <= stopCM
}
